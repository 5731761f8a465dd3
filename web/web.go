// Package web embeds the server-rendered templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/utils"
)

//go:embed templates/*.html static/*
var files embed.FS

var categoryColors = map[string]string{
	models.CategoryNotice: "#3b82f6",
	models.CategoryEvent:  "#22c55e",
	models.CategoryNews:   "#f97316",
}

// CategoryColor returns the badge color of a category.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return "#6b7280"
}

// FormatDate renders a wire timestamp as YYYY.MM.DD.
func FormatDate(ts string) string {
	t, err := time.ParseInLocation(models.TimeLayout, ts, time.Local)
	if err != nil {
		return ts
	}
	return t.Format("2006.01.02")
}

// FormatSize renders a byte count for humans.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%dB", n)
}

// Excerpt returns the first n characters of the text content of html.
func Excerpt(html string, n int) string {
	text := utils.SanitizeText(html)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "…"
}

// Funcs is the template function map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"categoryColor": CategoryColor,
		"formatDate":    FormatDate,
		"formatSize":    FormatSize,
		"excerpt":       Excerpt,
		// Post bodies are sanitized before they are stored.
		"trustedHTML": func(s string) template.HTML { return template.HTML(s) },
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"seq": func(from, to int) []int {
			var out []int
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}
}

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

// Static serves the embedded static assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
