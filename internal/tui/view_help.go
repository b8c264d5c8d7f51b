package tui

import (
	"fmt"
	"strings"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	a.writeCentered(&b, styleTitle.Render("Help"))

	usage := []string{
		fmt.Sprintf("  1. Type %q in a field, followed by your text", a.ctrl.Phrase()),
		"  2. Press ctrl+o when the marker appears",
		"  3. Pick an intent and a structure, press enter",
		"  4. Press r to replace the text, or c to copy it",
	}
	a.writeCentered(&b, styleBox.Copy().Width(60).Render(strings.Join(usage, "\n")))

	a.writeCentered(&b, styleSubtitle.Render("Keyboard Shortcuts"))

	shortcuts := []string{
		"  ctrl+o        Open the overlay for the marked field",
		"  ctrl+p        Improve the whole focused field",
		"  tab           Next field",
		"  ctrl+n        Add a field",
		"  ctrl+s        Settings and custom intents",
		"  esc           Close / back / quit",
		"  ctrl+c        Quit",
	}
	a.writeCentered(&b, styleBox.Copy().Width(60).Render(strings.Join(shortcuts, "\n")))

	a.writeCentered(&b, styleStatusBar.Render("[Esc] Back"))

	return a.centerVertically(b.String())
}
