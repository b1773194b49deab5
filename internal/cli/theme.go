package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#A855F7")
	colorPink   = lipgloss.Color("#EC4899")
	colorFg     = lipgloss.Color("#F3F4F6")
	colorDim    = lipgloss.Color("#9CA3AF")
	colorWarn   = lipgloss.Color("#F59E0B")

	styleTitle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleSubtitle  = lipgloss.NewStyle().Foreground(colorDim)
	styleUser      = lipgloss.NewStyle().Foreground(colorPink).Bold(true)
	styleAssistant = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleBody      = lipgloss.NewStyle().Foreground(colorFg).PaddingLeft(2)
	styleNotice    = lipgloss.NewStyle().Foreground(colorWarn)
)

func coachHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(colorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(colorPink)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(colorPink)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(colorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(colorAccent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(colorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(colorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(colorDim)

	return t
}
