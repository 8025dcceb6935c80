package model

// AnalysisRequest is the body accepted by the analyze endpoint.
type AnalysisRequest struct {
	URL string `json:"url"`
}

// AnalysisResult holds the SEO metadata extracted from a single page.
// Absent elements are reported with fallback literals; an element that is
// present but empty (such as <title></title>) keeps its empty text.
type AnalysisResult struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Headers         []string `json:"headers"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
