package analyzer

import (
	"context"

	"github.com/Bahjat/seo-analyzer/internal/model"
)

// PageInsightProvider defines the contract for any analysis engine.
type PageInsightProvider interface {
	Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error)
}
