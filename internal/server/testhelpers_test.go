package server

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/choose-paper/review-agent/internal/paper"
	"github.com/choose-paper/review-agent/internal/review"
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

// newTestServer wires a Server around a fake chat client.
func newTestServer(t *testing.T, staticDir, reviewText string) (*Server, *fakeChatClient) {
	t.Helper()
	fake := &fakeChatClient{
		resp: &openaichat.ChatCompletionResponse{
			Choices: []openaichat.Choice{
				{Message: openaichat.Message{Role: openaichat.RoleAssistant, Content: reviewText}},
			},
		},
	}
	factory := func(apiKey string, opts ...openaichat.Option) openaichat.Client {
		return fake
	}
	agent := review.New(paper.NewReader(), factory)
	return New(agent, staticDir), fake
}

// multipartForm builds a multipart body with the given fields and an optional
// file part named "file".
func multipartForm(t *testing.T, fields map[string]string, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(fileContent); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// buildPDF assembles a minimal but well-formed PDF with one page per entry.
// Kept in sync with the helper of the same name in internal/paper.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	bodies := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	escaper := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	for i, text := range pages {
		bodies = append(bodies, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))

		var stream string
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escaper.Replace(text))
		}
		bodies = append(bodies, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(bodies))
	for i, body := range bodies {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(bodies)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(bodies)+1, xref)

	return buf.Bytes()
}
