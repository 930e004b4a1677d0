// Package colorize provides the terminal color scheme for the dlgo
// demonstration CLI's trace and info output.
package colorize

import "github.com/charmbracelet/lipgloss"

// IDA-style theme colors, shared across the address/symbol/relocation renderers.
const (
	IDAAddress  = "#808080" // Gray for addresses
	IDAMnemonic = "#FFFFFF" // White for mnemonics (no renderer uses it)
	IDARegister = "#87CEEB" // Light blue for module/handle references
	IDANumber   = "#FF80C0" // Light pink for numeric values and relocation types
	IDALabel    = "#FFC800" // Yellow for symbol names
	IDAComment  = "#FF8000" // Orange for comments
	IDAString   = "#00FF00" // Green for strings
	IDAHexBytes = "#646464" // Dark gray for hex bytes
	IDAErr      = "#FF5050" // Red for errors
)

var (
	addressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAAddress))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(IDALabel))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(IDARegister))
	numberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(IDANumber))
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAComment))
	stringStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAString))
	hexStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAHexBytes))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(IDAErr)).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5696D6")).Bold(true)
)
