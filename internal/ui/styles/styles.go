package styles

import (
	lipgloss "github.com/charmbracelet/lipgloss"
	colors "github.com/inference-gateway/gridpilot/internal/ui/styles/colors"
)

// CommonStyles contains reusable lipgloss styles
type CommonStyles struct {
	Header      lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Dim         lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Point       lipgloss.Style
	Box         lipgloss.Style
	Prompt      lipgloss.Style
	Placeholder lipgloss.Style
}

// NewCommonStyles creates a new set of common styles with consistent theming
func NewCommonStyles() *CommonStyles {
	return &CommonStyles{
		Header: lipgloss.NewStyle().
			Foreground(colors.AccentColor.GetLipglossColor()).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(colors.DimColor.GetLipglossColor()).
			Width(12),
		Value: lipgloss.NewStyle().
			Foreground(colors.TextColor.GetLipglossColor()),
		Dim: lipgloss.NewStyle().
			Foreground(colors.DimColor.GetLipglossColor()),
		Success: lipgloss.NewStyle().
			Foreground(colors.SuccessColor.GetLipglossColor()).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colors.ErrorColor.GetLipglossColor()).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(colors.WarningColor.GetLipglossColor()),
		Point: lipgloss.NewStyle().
			Foreground(colors.PointColor.GetLipglossColor()),
		Box: lipgloss.NewStyle().
			Border(RoundedBorder()).
			BorderForeground(colors.BorderColor.GetLipglossColor()).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Foreground(colors.StatusColor.GetLipglossColor()).
			Bold(true),
		Placeholder: lipgloss.NewStyle().
			Foreground(colors.DimColor.GetLipglossColor()),
	}
}

// RoundedBorder returns a rounded border style for lipgloss
func RoundedBorder() lipgloss.Border {
	return lipgloss.RoundedBorder()
}
