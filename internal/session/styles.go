package session

import "github.com/charmbracelet/lipgloss"

var (
	promptStyleHost = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	promptStyleUser = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	promptStyleDir  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)
