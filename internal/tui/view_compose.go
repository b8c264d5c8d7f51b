package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = `
 ╔═╗┬─┐┌─┐┌┬┐┌─┐┌┬┐╔═╗┬┬  ┌─┐┌┬┐
 ╠═╝├┬┘│ ││││├─┘ │ ╠═╝││  │ │ │
 ╩  ┴└─└─┘┴ ┴┴   ┴ ╩  ┴┴─┘└─┘ ┴
`

func (a *App) renderCompose() string {
	var b strings.Builder

	title := styleLogo.Render("PromptPilot")
	b.WriteString(title)
	b.WriteString("  ")
	b.WriteString(styleSubtitle.Render(a.opts.Domain))
	b.WriteString("\n")
	hint := styleSubtitle.Render(fmt.Sprintf("Write %q before the text to improve, then press ctrl+o", a.ctrl.Phrase()))
	b.WriteString(hint)
	b.WriteString("\n\n")

	for i, f := range a.state.fields {
		border := colorMuted
		if i == a.state.focused {
			border = colorPrimary
		}
		box := styleBox.Copy().
			BorderForeground(border).
			Render(f.area.View())

		side := ""
		if a.state.marker.on == f {
			side = styleAffordance.Render(" ⚡ ctrl+o")
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, box, side))
		b.WriteString("\n")
	}

	if a.state.status != "" {
		b.WriteString(styleSubtitle.Render(a.state.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleStatusBar.Render("[ctrl+o] Improve  [ctrl+p] Improve field  [tab] Next field  [ctrl+n] New field  [ctrl+s] Settings  [ctrl+h] Help  [esc] Quit"))

	return b.String()
}
