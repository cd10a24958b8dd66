package viz

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/guptarohit/asciigraph"
)

// Markdown renders a markdown transcript for the terminal.
func Markdown(content string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

// Plot draws one series as an ASCII graph with a caption.
func Plot(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return Subtle.Render(fmt.Sprintf("%s: no data", caption))
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
