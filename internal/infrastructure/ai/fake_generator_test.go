package ai

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"google.golang.org/genai"
)

// fakeGenerator は登録された応答を順番に返すcontentGenerator
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	configs   []*genai.GenerateContentConfig
	contents  [][]*genai.Content
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.configs)
	f.configs = append(f.configs, config)
	f.contents = append(f.contents, contents)

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	text := ""
	if i < len(f.responses) {
		text = f.responses[i]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}, nil
}

func newFakeClient(responses ...string) (*GeminiClient, *fakeGenerator) {
	gen := &fakeGenerator{responses: responses}
	return &GeminiClient{models: gen, model: DefaultGeminiModel}, gen
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
