package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Bahjat/seo-analyzer/internal/model"
	"github.com/Bahjat/seo-analyzer/internal/pageinsight"
	"github.com/Bahjat/seo-analyzer/internal/platform/errs"
	"github.com/Bahjat/seo-analyzer/internal/platform/requestid"
)

// Service orchestrates a PageInsightProvider and logs results.
type Service struct {
	provider PageInsightProvider
	logger   *slog.Logger
}

// NewService creates a Service backed by the given provider.
func NewService(provider PageInsightProvider, logger *slog.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// Analyze delegates to the provider and logs the outcome. Fetch failures are
// returned as *errs.AppError of kind FetchFailed carrying the fetch message
// verbatim.
func (s *Service) Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error) {
	logger := s.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))

	result, err := s.provider.Analyze(ctx, targetURL)
	if err != nil {
		err = classify(err)

		attrs := []any{"error", err}
		var appErr *errs.AppError
		if errors.As(err, &appErr) {
			attrs = append(attrs, "kind", appErr.Kind.String())
			if appErr.UpstreamStatus != 0 {
				attrs = append(attrs, "target_status", appErr.UpstreamStatus)
			}
		}
		logger.Error("analysis failed", attrs...)
		return nil, err
	}

	logger.Info("analysis complete",
		"title", result.Title,
		"has_meta_description", result.MetaDescription != pageinsight.MetaDescriptionNotFound,
		"headers", len(result.Headers),
	)
	return result, nil
}

func classify(err error) error {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var fetchErr *pageinsight.FetchError
	if errors.As(err, &fetchErr) {
		return &errs.AppError{
			Kind:           errs.FetchFailed,
			UpstreamStatus: fetchErr.StatusCode,
			Message:        fetchErr.Error(),
			Cause:          fetchErr,
		}
	}

	return &errs.AppError{
		Kind:    errs.Unknown,
		Message: "An unexpected error occurred.",
		Cause:   err,
	}
}
