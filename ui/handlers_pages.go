package ui

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// handleIndex renders the dashboard shell. The overview, table and history
// panels load themselves through the fragment endpoints.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"HasData": a.service.HasData(),
	}

	if a.service.HasData() {
		sheet, err := resolveSheet(r.URL.Query(), a.service)
		if err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
		if _, err := a.service.Records(sheet); err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}

		data["Source"] = a.service.Source()
		data["LoadedAt"] = a.service.LoadedAt().String()
		data["Sheets"] = a.service.Sheets()
		data["Sheet"] = sheet
		data["OverviewURL"] = fragmentURL("/fragments/overview", sheet)
		data["TableURL"] = fragmentURL("/fragments/table", sheet)
	}

	a.renderTemplate(w, "index.html", data)
}

// handleBrief renders the workbook brief as a standalone page
func (a *App) handleBrief(w http.ResponseWriter, r *http.Request) {
	b, err := a.service.Brief()
	if err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}

	a.renderTemplate(w, "brief.html", map[string]interface{}{
		"Source":    b.Source,
		"Generated": b.Generated.String(),
		"Content":   renderMarkdown(b.Markdown()),
	})
}

// renderMarkdown converts brief markdown to embeddable HTML. The brief's
// tables need the table extension, which CommonExtensions includes.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.Render(doc, renderer))
}

func fragmentURL(path, sheet string) string {
	values := url.Values{}
	values.Set("sheet", sheet)
	return path + "?" + values.Encode()
}
