// Package markdown renders article bodies to HTML.
package markdown

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
)

// fallbackHTML is served when conversion fails, so a malformed article body
// degrades to a notice instead of a broken page.
const fallbackHTML = "<p>Failed to render article content.</p>"

// Renderer converts markdown to HTML via goldmark.
type Renderer struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{md: goldmark.New(), logger: logger}
}

// Render converts source markdown to HTML. Conversion failures are logged
// and replaced with fallback markup — article pages always render something.
func (r *Renderer) Render(source string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		r.logger.Error("failed to convert markdown", slog.String("error", err.Error()))
		return fallbackHTML
	}
	return buf.String()
}
