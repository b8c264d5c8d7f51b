package tui

import (
	"strings"
)

func (a *App) renderIntents() string {
	var b strings.Builder

	a.writeCentered(&b, styleLogo.Render("Custom Intents"))
	a.writeCentered(&b, styleSubtitle.Render("Your own instructions, listed after the built-in refinement intents"))

	if a.state.adding {
		a.renderAddIntent(&b)
		return a.centerVertically(b.String())
	}

	width := min(70, a.width-4)
	if len(a.state.custom) == 0 {
		a.writeCentered(&b, styleBox.Copy().
			Width(width).
			Foreground(colorMuted).
			Render("No custom intents yet.\n\nPress [a] to add one."))
	} else {
		var list strings.Builder
		for i, c := range a.state.custom {
			line := "  " + c.Label
			if i == a.state.intentSelected {
				line = styleSelected.Render("> " + c.Label)
			}
			list.WriteString(line + "\n")
			list.WriteString(styleSubtitle.Render("    "+truncate(c.Instruction, width-8)) + "\n")
		}
		a.writeCentered(&b, styleBox.Copy().
			Width(width).
			BorderForeground(colorPrimary).
			Render(strings.TrimRight(list.String(), "\n")))
	}

	if a.state.intentErr != nil {
		a.writeCentered(&b, styleError.Render(a.state.intentErr.Error()))
	}
	a.writeCentered(&b, styleStatusBar.Render("[a] Add  [d] Delete  [Up/Down] Select  [Esc] Back"))

	return a.centerVertically(b.String())
}

func (a *App) renderAddIntent(b *strings.Builder) {
	width := min(70, a.width-4)

	labelBorder, instrBorder := colorPrimary, colorMuted
	if a.state.addFocus == 1 {
		labelBorder, instrBorder = colorMuted, colorPrimary
	}

	a.writeCentered(b, styleBox.Copy().
		Width(width).
		BorderForeground(labelBorder).
		Render(a.state.labelInput.View()))
	a.writeCentered(b, styleBox.Copy().
		Width(width).
		BorderForeground(instrBorder).
		Render(a.state.instructionInput.View()))

	if a.state.intentErr != nil {
		a.writeCentered(b, styleBox.Copy().
			Width(width).
			BorderForeground(colorError).
			Render("Error: "+a.state.intentErr.Error()))
	}

	a.writeCentered(b, styleSubtitle.Render("Examples: \"Pirate speak\" / \"Rewrite the text like a pirate\""))
	a.writeCentered(b, styleStatusBar.Render("[Tab] Switch field  [Enter] Save  [Esc] Cancel"))
}
