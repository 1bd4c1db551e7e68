package colors

import (
	lipgloss "github.com/charmbracelet/lipgloss"
)

// Lipgloss color values, Tokyo Night palette
const (
	LipglossRed     = "#f7768e"
	LipglossGreen   = "#9ece6a"
	LipglossBlue    = "#7aa2f7"
	LipglossCyan    = "#7dcfff"
	LipglossMagenta = "#bb9af7"
	LipglossWhite   = "#a9b1d6"
	LipglossGray    = "#565f89"
	LipglossAmber   = "#e0af68"
	LipglossCodeBg  = "#1a1a2e"
)

// Color is a named palette entry
type Color struct {
	Lipgloss string
}

// Palette roles
var (
	AccentColor  = Color{Lipgloss: LipglossBlue}
	TextColor    = Color{Lipgloss: LipglossWhite}
	ErrorColor   = Color{Lipgloss: LipglossRed}
	SuccessColor = Color{Lipgloss: LipglossGreen}
	StatusColor  = Color{Lipgloss: LipglossMagenta}
	WarningColor = Color{Lipgloss: LipglossAmber}
	DimColor     = Color{Lipgloss: LipglossGray}
	BorderColor  = Color{Lipgloss: LipglossGray}
	PointColor   = Color{Lipgloss: LipglossCyan}
)

// GetLipglossColor returns a lipgloss color for the given Color
func (c Color) GetLipglossColor() lipgloss.Color {
	return lipgloss.Color(c.Lipgloss)
}
