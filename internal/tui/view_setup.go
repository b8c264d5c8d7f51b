package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/promptpilot/internal/config"
)

func (a *App) renderSetup() string {
	if a.state.setupStep == 1 {
		return a.renderAPIKeyEntry()
	}
	return a.renderProviderSelection()
}

func (a *App) renderProviderSelection() string {
	var b strings.Builder

	a.writeCentered(&b, styleLogo.Render(logo))
	a.writeCentered(&b, lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render("Choose where improvements run:"))

	var lines []string
	for i, p := range config.Providers {
		mark := "[ ]"
		if p.ID == a.state.config.Provider {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %-12s %s", mark, p.Name, p.Description)
		if i == a.state.selectedProvider {
			line = styleSelected.Render(">" + line[1:])
		} else {
			line = styleSubtitle.Render(line)
		}
		lines = append(lines, line)
	}
	a.writeCentered(&b, styleBox.Copy().Width(56).Render(strings.Join(lines, "\n")))

	if config.Providers[a.state.selectedProvider].ID == "custom" {
		a.writeCentered(&b, styleSubtitle.Render("Custom endpoints read base_url from config.yaml"))
	}

	a.writeCentered(&b, styleStatusBar.Render("[j/k] Navigate  [Enter] Select  [Esc] Skip"))

	return a.centerVertically(b.String())
}

func (a *App) renderAPIKeyEntry() string {
	var b strings.Builder

	name := a.state.config.Provider
	signup := ""
	if p := config.GetProvider(name); p != nil {
		name, signup = p.Name, p.SignupURL
	}

	a.writeCentered(&b, styleTitle.Render(fmt.Sprintf("Enter your %s API key", name)))
	a.writeCentered(&b, styleSubtitle.Render("Kept in the local PromptPilot database, never in config.yaml"))
	if signup != "" {
		a.writeCentered(&b, styleSubtitle.Render("Get one at: "+signup))
	}

	a.writeCentered(&b, styleBox.Copy().
		Width(60).
		BorderForeground(colorSecondary).
		Render(a.state.apiKeyInput.View()))

	a.writeCentered(&b, styleStatusBar.Render("[Enter] Continue  [Esc] Back"))

	return a.centerVertically(b.String())
}

// writeCentered appends a horizontally centered block and a blank line
func (a *App) writeCentered(b *strings.Builder, block string) {
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, block))
	b.WriteString("\n\n")
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}
