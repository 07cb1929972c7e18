package review

import (
	"context"

	"github.com/choose-paper/review-agent/pkg/openaichat"
)

// fakeChatClient records the last request and returns a canned response.
type fakeChatClient struct {
	lastReq openaichat.ChatCompletionRequest
	resp    *openaichat.ChatCompletionResponse
	err     error
}

func (f *fakeChatClient) ChatCompletion(_ context.Context, req openaichat.ChatCompletionRequest) (*openaichat.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func cannedResponse(text string) *openaichat.ChatCompletionResponse {
	return &openaichat.ChatCompletionResponse{
		ID: "cmpl-test",
		Choices: []openaichat.Choice{
			{Message: openaichat.Message{Role: openaichat.RoleAssistant, Content: text}},
		},
	}
}

// fakeFactory returns the given client and records the key and option count
// it was invoked with.
type fakeFactory struct {
	client  *fakeChatClient
	apiKey  string
	numOpts int
	calls   int
}

func (f *fakeFactory) factory(apiKey string, opts ...openaichat.Option) openaichat.Client {
	f.apiKey = apiKey
	f.numOpts = len(opts)
	f.calls++
	return f.client
}
