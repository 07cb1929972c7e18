// Package paper normalizes a paper source (file path, URL, stdin, or upload)
// into UTF-8 text, extracting text from PDFs page by page.
package paper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// ErrFetch indicates a failed paper URL retrieval, either a transport error
// or a non-success HTTP status.
var ErrFetch = eris.New("paper: fetch failed")

// fetchTimeout bounds the URL fetch; the model call has its own client.
const fetchTimeout = 30 * time.Second

// Kind classifies a paper source descriptor.
type Kind int

const (
	KindStdin Kind = iota
	KindURL
	KindPDF
	KindText
)

// DetectKind classifies a source without touching it. The predicates run in
// fixed priority order: stdin sentinel, URL scheme, ".pdf" suffix, text path.
func DetectKind(source string) Kind {
	if source == "-" {
		return KindStdin
	}
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return KindURL
	}
	if strings.HasSuffix(strings.ToLower(source), ".pdf") {
		return KindPDF
	}
	return KindText
}

// Reader resolves paper sources into normalized text.
type Reader struct {
	client *http.Client
	stdin  io.Reader
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithHTTPClient overrides the default fetch client.
func WithHTTPClient(hc *http.Client) ReaderOption {
	return func(r *Reader) {
		r.client = hc
	}
}

// WithStdin overrides the standard input stream.
func WithStdin(in io.Reader) ReaderOption {
	return func(r *Reader) {
		r.stdin = in
	}
}

// NewReader creates a Reader with a bounded-timeout fetch client.
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{
		client: &http.Client{Timeout: fetchTimeout},
		stdin:  os.Stdin,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Read resolves a source descriptor (path, URL, or "-") into paper text.
// The result is not trimmed and emptiness is not enforced here; that is the
// caller's responsibility.
func (r *Reader) Read(ctx context.Context, source string) (string, error) {
	switch DetectKind(source) {
	case KindStdin:
		b, err := io.ReadAll(r.stdin)
		if err != nil {
			return "", eris.Wrap(err, "paper: read stdin")
		}
		return string(b), nil
	case KindURL:
		return r.readURL(ctx, source)
	case KindPDF:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", eris.Wrap(err, "paper: read pdf file")
		}
		return ExtractText(data)
	default:
		b, err := os.ReadFile(source)
		if err != nil {
			return "", eris.Wrap(err, "paper: read text file")
		}
		if !utf8.Valid(b) {
			return "", eris.Errorf("paper: %s is not valid UTF-8", source)
		}
		return string(b), nil
	}
}

// readURL fetches a paper over HTTP. The content-type header and the URL path
// suffix both select PDF extraction; either signal alone is enough.
func (r *Reader) readURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "paper: create request")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", eris.Wrapf(ErrFetch, "get %s: %v", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", eris.Wrapf(ErrFetch, "status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "paper: read response body")
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "pdf") || urlPathIsPDF(rawURL) {
		return ExtractText(body)
	}
	return string(body), nil
}

func urlPathIsPDF(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// FromUpload normalizes an uploaded file, mirroring the URL heuristic: a
// ".pdf" filename suffix or a pdf content type routes through the extractor,
// anything else is decoded as text with invalid UTF-8 bytes dropped.
func FromUpload(filename, contentType string, data []byte) (string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") ||
		strings.Contains(strings.ToLower(contentType), "pdf") {
		return ExtractText(data)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
