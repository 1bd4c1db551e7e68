package markdown

import (
	"strings"

	glamour "github.com/charmbracelet/glamour"
	ansi "github.com/charmbracelet/glamour/ansi"
	colors "github.com/inference-gateway/gridpilot/internal/ui/styles/colors"
)

// Renderer handles markdown to styled terminal output conversion
type Renderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// NewRenderer creates a markdown renderer that wraps at width
func NewRenderer(width int) *Renderer {
	r := &Renderer{width: width}
	r.updateRenderer()
	return r
}

// SetWidth updates the renderer width
func (r *Renderer) SetWidth(width int) {
	if width != r.width {
		r.width = width
		r.updateRenderer()
	}
}

// Render converts markdown text to styled terminal output
func (r *Renderer) Render(content string) string {
	if r.renderer == nil {
		return content
	}

	rendered, err := r.renderer.Render(content)
	if err != nil {
		return content
	}

	return strings.Trim(rendered, "\n")
}

func (r *Renderer) updateRenderer() {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styleConfig()),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(r.width),
		)
	}
	r.renderer = renderer
}

func styleConfig() ansi.StyleConfig {
	accent := colors.AccentColor.Lipgloss
	dim := colors.DimColor.Lipgloss
	status := colors.StatusColor.Lipgloss

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			Margin: uintPtr(0),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr(dim),
				Italic: boolPtr(true),
			},
			Indent:      uintPtr(1),
			IndentToken: stringPtr("│ "),
		},
		Paragraph: ansi.StyleBlock{},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Bold:  boolPtr(true),
				Color: stringPtr(accent),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Bold:  boolPtr(true),
				Color: stringPtr(accent),
			},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Bold:  boolPtr(true),
				Color: stringPtr(status),
			},
		},
		Strong: ansi.StylePrimitive{
			Bold: boolPtr(true),
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           stringPtr(status),
				BackgroundColor: stringPtr(colors.LipglossCodeBg),
			},
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
	}
}

func stringPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func uintPtr(u uint) *uint {
	return &u
}
