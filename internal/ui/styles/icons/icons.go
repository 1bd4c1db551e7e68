package icons

import (
	lipgloss "github.com/charmbracelet/lipgloss"
	colors "github.com/inference-gateway/gridpilot/internal/ui/styles/colors"
)

// Status icons
const (
	CheckMark = "✓"
	CrossMark = "✗"
	SkipMark  = "-"
	Pointer   = "◎"
)

// Icon styles
var (
	CheckMarkStyle = lipgloss.NewStyle().Foreground(colors.SuccessColor.GetLipglossColor()).Bold(true)
	CrossMarkStyle = lipgloss.NewStyle().Foreground(colors.ErrorColor.GetLipglossColor()).Bold(true)
	SkipMarkStyle  = lipgloss.NewStyle().Foreground(colors.DimColor.GetLipglossColor())
	PointerStyle   = lipgloss.NewStyle().Foreground(colors.PointColor.GetLipglossColor())
)

func StyledCheckMark() string {
	return CheckMarkStyle.Render(CheckMark)
}

func StyledCrossMark() string {
	return CrossMarkStyle.Render(CrossMark)
}

func StyledSkipMark() string {
	return SkipMarkStyle.Render(SkipMark)
}

func StyledPointer() string {
	return PointerStyle.Render(Pointer)
}
