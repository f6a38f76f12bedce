package main

import "github.com/charmbracelet/lipgloss"

const (
	barWidth      = 20
	upcomingShown = 3
)

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 3)

	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	countdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	exerciseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true)
	benefitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("108")).Italic(true)
	pausedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)
