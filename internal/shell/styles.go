package shell

import "github.com/charmbracelet/lipgloss"

var (
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleNotice = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleDir    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)
