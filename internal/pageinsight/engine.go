package pageinsight

import (
	"context"
	"errors"

	"github.com/Bahjat/seo-analyzer/internal/model"
)

// Engine runs the fetch-then-extract pipeline for a single URL.
type Engine struct {
	fetcher Fetcher
	extract func(html string) model.AnalysisResult
}

// NewEngine returns an Engine backed by the given Fetcher.
func NewEngine(fetcher Fetcher) *Engine {
	return &Engine{
		fetcher: fetcher,
		extract: Extract,
	}
}

// Analyze fetches targetURL and extracts its SEO metadata. When the fetch
// fails the returned error is a *FetchError and no extraction happens.
func (e *Engine) Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error) {
	html, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			err = &FetchError{URL: targetURL, Err: err}
		}
		return nil, err
	}

	result := e.extract(html)
	return &result, nil
}
