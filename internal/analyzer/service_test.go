package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bahjat/seo-analyzer/internal/model"
	"github.com/Bahjat/seo-analyzer/internal/pageinsight"
	"github.com/Bahjat/seo-analyzer/internal/platform/errs"
	"github.com/Bahjat/seo-analyzer/internal/platform/requestid"
)

func TestService_Analyze_LogsSuccess(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(&mockProvider{
		result: &model.AnalysisResult{Title: "T", MetaDescription: "d", Headers: []string{"a", "b"}},
	}, slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := requestid.NewContext(context.Background(), "req-42")
	result, err := svc.Analyze(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "T", result.Title)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis complete", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, true, entry["has_meta_description"])
	assert.InDelta(t, 2, entry["headers"], 0)
}

func TestService_Analyze_ConvertsFetchError(t *testing.T) {
	var buf bytes.Buffer
	fetchErr := &pageinsight.FetchError{URL: "https://example.com", StatusCode: http.StatusInternalServerError}
	svc := NewService(&mockProvider{err: fetchErr}, slog.New(slog.NewJSONHandler(&buf, nil)))

	_, err := svc.Analyze(context.Background(), "https://example.com")

	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.FetchFailed, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.UpstreamStatus)
	assert.Equal(t, fetchErr.Error(), appErr.Message)
	assert.Equal(t, fetchErr.Error(), appErr.Error())
	assert.ErrorIs(t, err, fetchErr)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis failed", entry["msg"])
	assert.Equal(t, "fetch_failed", entry["kind"])
	assert.InDelta(t, 500, entry["target_status"], 0)
}

func TestService_Analyze_PassesAppErrorThrough(t *testing.T) {
	want := &errs.AppError{Kind: errs.InvalidInput, Message: "bad url"}
	svc := NewService(&mockProvider{err: want}, discardLogger())

	_, err := svc.Analyze(context.Background(), "https://example.com")
	assert.Same(t, want, err)
}

func TestService_Analyze_UnknownError(t *testing.T) {
	cause := errors.New("boom")
	svc := NewService(&mockProvider{err: cause}, discardLogger())

	_, err := svc.Analyze(context.Background(), "https://example.com")

	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.Unknown, appErr.Kind)
	assert.ErrorIs(t, err, cause)
}
