package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed content/*.md
var contentFS embed.FS

const (
	siteDescription = "This is a small khata book clone built with Go templates."
	genericError    = "Something went wrong. Please try again later."
)

func loadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"date": formatDate,
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// loadPages renders the markdown bodies of the static pages.
func loadPages(names ...string) (map[string]template.HTML, error) {
	pages := make(map[string]template.HTML, len(names))
	for _, name := range names {
		src, err := contentFS.ReadFile("content/" + name + ".md")
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := goldmark.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("render page %s: %w", name, err)
		}
		pages[name] = template.HTML(buf.String())
	}
	return pages, nil
}

// formatDate renders t as a form date. Entry dates are UTC calendar days;
// drivers may hand them back in the local zone.
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// getLocals builds the values shared by every page template.
func getLocals(title, header string, extra gin.H) gin.H {
	locals := gin.H{
		"title":       "Khaata | " + title,
		"description": siteDescription,
		"header":      header,
	}
	for k, v := range extra {
		locals[k] = v
	}
	return locals
}

// queryMarkers exposes the error/success redirect markers to templates.
func queryMarkers(c *gin.Context) gin.H {
	return gin.H{"error": c.Query("error"), "success": c.Query("success")}
}
