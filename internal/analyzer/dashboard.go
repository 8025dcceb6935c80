package analyzer

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/Bahjat/seo-analyzer/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

// dashboard renders the HTML form page. It calls the service directly rather
// than looping back through the JSON endpoint.
type dashboard struct {
	page *template.Template
}

type dashboardView struct {
	URL    string
	Result *model.AnalysisResult
	Error  string
}

func newDashboard() *dashboard {
	return &dashboard{
		page: template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

func (t *Transport) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	t.renderPage(w, http.StatusOK, dashboardView{})
}

func (t *Transport) handleDashboardSubmit(w http.ResponseWriter, r *http.Request) {
	const maxFormBody = 64 << 10
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)

	if err := r.ParseForm(); err != nil {
		t.renderPage(w, http.StatusBadRequest, dashboardView{Error: "Invalid form submission."})
		return
	}

	view := dashboardView{URL: r.PostForm.Get("url")}
	if err := validateURL(view.URL); err != nil {
		status, message := statusFor(err)
		view.Error = message
		t.renderPage(w, status, view)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := t.service.Analyze(ctx, view.URL)
	if err != nil {
		status, message := statusFor(err)
		view.Error = message
		t.renderPage(w, status, view)
		return
	}

	view.Result = result
	t.renderPage(w, http.StatusOK, view)
}

func (t *Transport) renderPage(w http.ResponseWriter, status int, view dashboardView) {
	var buf bytes.Buffer
	if err := t.dashboard.page.Execute(&buf, view); err != nil {
		t.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
