package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/promptpilot/internal/improve"
	"github.com/sant0-9/promptpilot/internal/intent"
)

// listWindow is how many options of a list are visible at once
const listWindow = 8

func (a *App) renderOverlay() string {
	width := min(76, a.width-4)
	if width < 40 {
		width = 40
	}

	var b strings.Builder

	b.WriteString(styleTitle.Render("PromptPilot"))
	if a.state.request.Domain != "" {
		b.WriteString(styleSubtitle.Render("  " + a.state.request.Domain))
	}
	b.WriteString("\n\n")

	// Text being improved
	original := a.state.request.Text
	if original == "" {
		original = styleError.Render("(empty)")
	}
	b.WriteString(styleSubtitle.Render("> " + truncate(strings.ReplaceAll(original, "\n", " "), width-6)))
	b.WriteString("\n\n")

	// Tabs
	tabs := make([]string, 0, 2)
	for _, t := range []tab{tabRefinement, tabAdvanced} {
		style := styleTabInactive
		if a.state.form.tab == t {
			style = styleTabActive
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	// Pickers
	f := a.state.form
	colWidth := (width - 6) / 2
	left := a.renderOptions("Intent", f.intents[f.tab], f.intentIdx, f.focus == focusIntent, colWidth)
	right := a.renderOptions("Structure", f.structs[f.tab], f.structIdx, f.focus == focusStructure, colWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	// Improve button
	button := styleTabActive.Render(" Improve ")
	if f.locked(a.state.plan) {
		button = styleLocked.Render("[locked] Improve") + "  " + styleSubtitle.Render(improve.MsgUpgrade)
	} else if a.state.result.IsLoading || a.state.result.Phase == improve.Streaming {
		button = styleLocked.Render(" Improve ")
	}
	b.WriteString(button)
	b.WriteString("\n\n")

	// Result
	b.WriteString(a.renderResult(width - 4))
	b.WriteString("\n")

	// Footer
	b.WriteString(a.renderOverlayFooter())

	box := styleBox.Copy().
		Width(width).
		BorderForeground(colorPrimary).
		Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a *App) renderOptions(title string, opts []intent.Option, selected int, focused bool, width int) string {
	var lines []string

	heading := styleSubtitle.Render(title)
	if focused {
		heading = styleSelected.Render(title)
	}
	lines = append(lines, heading)

	start := 0
	if selected >= listWindow {
		start = selected - listWindow + 1
	}
	end := min(len(opts), start+listWindow)

	for i := start; i < end; i++ {
		o := opts[i]
		label := o.Label
		if intent.IsCustomID(o.Value) {
			label += " *"
		}
		if o.Pro && !a.state.plan.CanUsePro {
			label = "[locked] " + label
		}

		cursor := "  "
		if i == selected {
			cursor = "> "
		}
		line := truncate(cursor+label, width)

		switch {
		case i == selected && focused:
			line = styleSelected.Render(line)
		case o.Pro && !a.state.plan.CanUsePro:
			line = styleLocked.Render(line)
		}
		lines = append(lines, line)
	}

	if len(opts) > listWindow {
		lines = append(lines, styleSubtitle.Render(fmt.Sprintf("  %d/%d", selected+1, len(opts))))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (a *App) renderResult(width int) string {
	r := a.state.result
	box := styleBox.Copy().Width(width)

	switch {
	case r.IsLoading:
		return box.BorderForeground(colorSecondary).
			Render(a.state.spin.View() + " Improving...")

	case r.Phase == improve.Errored:
		body := styleError.Render(r.Error)
		if hint := errorHint(r.Error); hint != "" {
			body += "\n" + styleSubtitle.Render(hint)
		}
		return box.BorderForeground(colorError).Render(body)

	case r.ResultText != "":
		text := r.ResultText
		maxLines := max(5, a.height-26)
		lines := strings.Split(text, "\n")
		if len(lines) > maxLines {
			// keep the tail visible while streaming
			lines = lines[len(lines)-maxLines:]
			text = strings.Join(lines, "\n")
		}
		border := colorSuccess
		if r.Phase == improve.Streaming {
			border = colorSecondary
		}
		return box.BorderForeground(border).Render(text)
	}

	return box.Render(styleSubtitle.Render("Pick an intent and structure, then press enter"))
}

func (a *App) renderOverlayFooter() string {
	var parts []string

	if a.state.plan.Metered() {
		parts = append(parts, fmt.Sprintf("%d of %d free improvements left today",
			a.state.usage.Remaining(), a.state.usage.Limit))
	} else if a.state.plan.Tier != "" {
		parts = append(parts, "Plan: "+a.state.plan.Tier)
	}

	if a.state.request.Text != "" {
		parts = append(parts, fmt.Sprintf("~%d tokens of %dk", estimateTokens(a.state.request.Text), contextLimit(a.state.model)/1000))
	}

	if a.state.status != "" {
		parts = append(parts, a.state.status)
	}

	var keyHints string
	switch a.state.result.Phase {
	case improve.Done:
		keyHints = "[r] Replace  [c] Copy  [enter] Again  [esc] Close"
	case improve.Requesting, improve.Streaming:
		keyHints = "Streaming...  [esc] Cancel"
	default:
		keyHints = "[left/right] Tab  [tab] Intent/Structure  [up/down] Choose  [enter] Improve  [esc] Close"
	}

	return styleStatusBar.Render(strings.Join(parts, "  |  ")) + "\n" + styleStatusBar.Render(keyHints)
}

// errorHint suggests a next step for common failures
func errorHint(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case msg == improve.MsgMissingAPIKey || strings.Contains(lower, "api key"):
		return "Add a key in settings (ctrl+s) or set OPENAI_API_KEY"
	case msg == improve.MsgUpgrade || msg == improve.MsgDailyLimit:
		return "Run: promptpilot profile set --tier pro"
	case strings.Contains(lower, "rate limit"):
		return "Wait a moment and try again"
	case msg == improve.MsgStreamingAbsent:
		return "Set stream: false in config.yaml"
	case msg == improve.MsgFetchFailed:
		return "Check your internet connection and provider settings"
	}
	return ""
}
