package pageinsight

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Bahjat/seo-analyzer/internal/model"
)

// Fallback literals reported when a page lacks the corresponding element.
const (
	TitleNotFound           = "Título não encontrado"
	MetaDescriptionNotFound = "Meta descrição não encontrada"
	NoHeadersFound          = "Nenhum cabeçalho encontrado"
)

// Extract derives the SEO metadata of an HTML document. It never fails:
// the document is built with the HTML5 tree-construction algorithm, which
// repairs unclosed tags and invalid nesting instead of rejecting them, and
// every missing element is reported through its fallback literal.
//
// Scripting is disabled while parsing so <noscript> content becomes elements
// rather than raw text; headings and meta tags inside it are counted.
func Extract(page string) model.AnalysisResult {
	root, err := html.ParseWithOptions(strings.NewReader(page), html.ParseOptionEnableScripting(false))
	if err != nil {
		// Only reachable on reader errors; a strings.Reader has none.
		return model.AnalysisResult{
			Title:           TitleNotFound,
			MetaDescription: MetaDescriptionNotFound,
			Headers:         []string{NoHeadersFound},
		}
	}

	doc := goquery.NewDocumentFromNode(root)
	return model.AnalysisResult{
		Title:           extractTitle(doc),
		MetaDescription: extractMetaDescription(doc),
		Headers:         extractHeaders(doc),
	}
}

// extractTitle returns the text of the first title element, untrimmed.
func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return TitleNotFound
	}
	return title.Text()
}

// extractMetaDescription returns the content of the first meta element named
// "description" in any letter case. Scanning stops at that element even when
// its content is empty.
func extractMetaDescription(doc *goquery.Document) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, ok := s.Attr("name")
		if !ok || strings.ToLower(name) != "description" {
			return true
		}
		content = s.AttrOr("content", "")
		return false
	})

	if content == "" {
		return MetaDescriptionNotFound
	}
	return content
}

// extractHeaders collects heading texts grouped by level: every h1 in
// document order, then every h2, and so on down to h6.
func extractHeaders(doc *goquery.Document) []string {
	var headers []string
	for level := 1; level <= 6; level++ {
		doc.Find("h" + strconv.Itoa(level)).Each(func(_ int, s *goquery.Selection) {
			headers = append(headers, s.Text())
		})
	}

	if len(headers) == 0 {
		return []string{NoHeadersFound}
	}
	return headers
}
