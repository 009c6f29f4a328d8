package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
)

//go:embed content/*.md
var contentFS embed.FS

// Sections holds the rendered body of each section, keyed by route path.
type Sections map[string]template.HTML

// LoadSections renders every embedded markdown file. content/stock.md is
// served at /stock.
func LoadSections() (Sections, error) {
	files, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return nil, err
	}

	out := make(Sections, len(files))
	for _, f := range files {
		src, err := contentFS.ReadFile(f)
		if err != nil {
			return nil, err
		}
		html, err := RenderMarkdown(src)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", f, err)
		}
		out["/"+strings.TrimSuffix(path.Base(f), ".md")] = html
	}
	return out, nil
}

// RenderMarkdown converts markdown to HTML safe to inject in a template.
func RenderMarkdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
