package view

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/your-org/dataqa-history/pkg/analytics"
	"github.com/your-org/dataqa-history/pkg/models"
)

// Page renders the comparison-run history view
type Page struct {
	tmpl *template.Template
}

// PageData is everything the history template needs
type PageData struct {
	ProjectName string
	GeneratedAt time.Time
	Items       []models.HistoryItem
	Summary     analytics.Summary
	Trend       string
	// Static is true when the page is written to a file; delete buttons are
	// hidden because there is no API to call.
	Static bool
}

// NewPage parses the history page template
func NewPage() *Page {
	funcMap := template.FuncMap{
		"badgeClass": func(s models.Status) string {
			switch s.BadgeColor() {
			case "green":
				return "bg-green-100 text-green-800"
			case "red":
				return "bg-red-100 text-red-800"
			case "amber":
				return "bg-yellow-100 text-yellow-800"
			default:
				return "bg-gray-100 text-gray-600"
			}
		},
		"statusIcon": func(s models.Status) string {
			return s.Icon()
		},
		"formatTimestamp": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"formatSuccessRate": func(rate float64) string {
			return fmt.Sprintf("%.1f", rate)
		},
	}

	return &Page{
		tmpl: template.Must(template.New("history").Funcs(funcMap).Parse(pageTemplate)),
	}
}

// Render writes the history page HTML
func (p *Page) Render(w io.Writer, data *PageData) error {
	if err := p.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render history page: %w", err)
	}
	return nil
}

// WriteFile renders the page as a static file
func (p *Page) WriteFile(path string, data *PageData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	data.Static = true
	return p.Render(f, data)
}
