package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle   = lipgloss.NewStyle().Width(18)
	helpStyle    = blurredStyle

	focusedButton  = focusedStyle.Render("[ Execute ]")
	blurredButton  = "[ " + blurredStyle.Render("Execute") + " ]"
	selectedClient = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	noticeBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3)

	noticeColors = map[string]lipgloss.Color{
		"success": lipgloss.Color("42"),
		"error":   lipgloss.Color("196"),
		"info":    lipgloss.Color("39"),
	}
)
