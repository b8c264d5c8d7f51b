package tui

import (
	"fmt"
	"strings"

	"github.com/sant0-9/promptpilot/internal/config"
	"github.com/sant0-9/promptpilot/internal/entitlement"
)

func (a *App) renderSettings() string {
	switch a.state.settingsMode {
	case "model":
		return a.renderSettingsModel()
	case "apikey":
		return a.renderSettingsAPIKey()
	default:
		return a.renderSettingsMain()
	}
}

func (a *App) renderSettingsMain() string {
	var b strings.Builder

	a.writeCentered(&b, styleTitle.Render("Settings"))

	providerName := a.state.config.Provider
	if p := config.GetProvider(providerName); p != nil {
		providerName = p.Name
	}

	key := maskKey(a.state.apiKey)
	if a.opts.APIKey != "" {
		key = maskKey(a.opts.APIKey) + " (from OPENAI_API_KEY)"
	}

	lines := []string{
		fmt.Sprintf("  Provider: %s", providerName),
		fmt.Sprintf("  Model:    %s", a.state.model),
		fmt.Sprintf("  API Key:  %s", key),
		fmt.Sprintf("  Trigger:  %s", a.ctrl.Phrase()),
		"",
		fmt.Sprintf("  Plan:     %s", planLabel(a.state.plan)),
	}
	if a.state.plan.Metered() {
		lines = append(lines, fmt.Sprintf("  Usage:    %d/%d today", a.state.usage.Count, a.state.usage.Limit))
	}
	lines = append(lines, fmt.Sprintf("  Custom intents: %d", len(a.state.custom)))

	switch {
	case a.state.pinging:
		lines = append(lines, "", "  Testing connection...")
	case a.state.pingErr != nil:
		lines = append(lines, "", styleError.Render("  "+truncate(a.state.pingErr.Error(), 46)))
	case a.state.pingOK:
		lines = append(lines, "", styleSelected.Render("  Connection OK"))
	}

	a.writeCentered(&b, styleBox.Copy().Width(56).Render(strings.Join(lines, "\n")))

	actions := []string{
		"  [m] Change model",
		"  [k] Update API key",
		"  [t] Test connection",
		"  [i] Custom intents",
		"  [p] Change provider",
	}
	a.writeCentered(&b, styleBox.Copy().Width(56).Render(strings.Join(actions, "\n")))

	if a.state.status != "" {
		a.writeCentered(&b, styleSubtitle.Render(a.state.status))
	}
	a.writeCentered(&b, styleStatusBar.Render("[Esc] Back"))

	return a.centerVertically(b.String())
}

func planLabel(p entitlement.Plan) string {
	switch {
	case p.Tier == entitlement.TierPro:
		return "Pro"
	case p.CanUsePro:
		return "Free (Pro trial)"
	default:
		return "Free"
	}
}

func (a *App) renderSettingsModel() string {
	var b strings.Builder

	a.writeCentered(&b, styleTitle.Render("Select Model"))

	provider := config.GetProvider(a.state.config.Provider)
	if provider == nil || len(provider.Models) == 0 {
		a.writeCentered(&b, styleSubtitle.Render("This provider has no model list. Use: promptpilot model set <name>"))
		a.writeCentered(&b, styleStatusBar.Render("[Esc] Back"))
		return a.centerVertically(b.String())
	}

	a.writeCentered(&b, styleSubtitle.Render("Provider: "+provider.Name))

	var lines []string
	for i, model := range provider.Models {
		cursor := "  "
		if i == a.state.settingsSelected {
			cursor = "> "
		}
		current := ""
		if model == a.state.model {
			current = " (current)"
		}
		line := cursor + model + current
		if i == a.state.settingsSelected {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}

	a.writeCentered(&b, styleBox.Copy().Width(50).Render(strings.Join(lines, "\n")))
	a.writeCentered(&b, styleStatusBar.Render("[Up/Down] Navigate  [Enter] Select  [Esc] Cancel"))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsAPIKey() string {
	var b strings.Builder

	a.writeCentered(&b, styleTitle.Render("Update API Key"))
	a.writeCentered(&b, styleSubtitle.Render("Enter your new API key"))
	a.writeCentered(&b, styleBox.Copy().
		Width(50).
		BorderForeground(colorPrimary).
		Render(a.state.apiKeyInput.View()))
	a.writeCentered(&b, styleStatusBar.Render("[Enter] Save  [Esc] Cancel"))

	return a.centerVertically(b.String())
}
