package review

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/choose-paper/review-agent/internal/paper"
	"github.com/choose-paper/review-agent/pkg/openaichat"
)

// ErrEmptyPaper indicates that no usable paper text remained after trimming.
var ErrEmptyPaper = eris.New("review: paper text is empty")

// Request carries the parameters of one review. Either Source (path, URL, or
// "-") or pre-resolved Text with a SourceLabel must be set; Text wins when
// both are present.
type Request struct {
	Source      string
	Text        string
	SourceLabel string

	Domain      string
	Tone        string
	Language    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
}

// Result is the model's verdict plus the metadata the front ends report.
type Result struct {
	Review string
	Source string
	Chars  int
}

// ClientFactory builds a chat client for a request-scoped API key.
type ClientFactory func(apiKey string, opts ...openaichat.Option) openaichat.Client

// Agent runs the read → build-prompt → call-model sequence. It holds no
// per-request state and is safe for concurrent use.
type Agent struct {
	reader    *paper.Reader
	newClient ClientFactory
}

// New creates an Agent. A nil factory uses the real openaichat client.
func New(reader *paper.Reader, factory ClientFactory) *Agent {
	if reader == nil {
		reader = paper.NewReader()
	}
	if factory == nil {
		factory = openaichat.NewClient
	}
	return &Agent{reader: reader, newClient: factory}
}

// Run resolves the paper text, builds the prompt, and performs a single
// chat-completion call. No retry, no backoff; model failures propagate.
func (a *Agent) Run(ctx context.Context, req Request) (*Result, error) {
	text := req.Text
	label := req.SourceLabel
	if text == "" && req.Source != "" {
		var err error
		text, err = a.reader.Read(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		if label == "" {
			label = req.Source
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, eris.Wrap(ErrEmptyPaper, "provide a text file, URL, or stdin input")
	}

	messages := BuildMessages(req.Domain, req.Tone, req.Language, text)

	var opts []openaichat.Option
	if req.BaseURL != "" {
		opts = append(opts, openaichat.WithBaseURL(req.BaseURL))
	}
	client := a.newClient(req.APIKey, opts...)

	temperature := req.Temperature
	resp, err := client.ChatCompletion(ctx, openaichat.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, eris.Wrap(err, "review: call model")
	}

	zap.L().Debug("review complete",
		zap.String("source", label),
		zap.String("model", req.Model),
		zap.Int("paper_chars", utf8.RuneCountInString(text)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return &Result{
		Review: resp.FirstChoiceText(),
		Source: label,
		Chars:  utf8.RuneCountInString(text),
	}, nil
}
