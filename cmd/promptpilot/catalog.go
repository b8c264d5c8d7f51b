package main

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sant0-9/promptpilot/internal/intent"
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the intents and output structures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				custom, err := d.settings.CustomIntents(ctx)
				if err != nil {
					return err
				}
				return renderCatalog(cmd.OutOrStdout(), custom, viper.GetBool("json"))
			})
		},
	}
}

type catalogEntry struct {
	Kind  string `json:"kind"`
	Group string `json:"group,omitempty"`
	Value string `json:"value"`
	Label string `json:"label"`
	Pro   bool   `json:"pro"`
}

func catalogEntries(custom []intent.CustomIntent) []catalogEntry {
	var out []catalogEntry
	for _, o := range intent.IntentOptions(custom) {
		out = append(out, catalogEntry{
			Kind:  "intent",
			Group: intent.GroupOf(o.Value).String(),
			Value: o.Value,
			Label: o.Label,
			Pro:   o.Pro,
		})
	}
	for _, o := range intent.AllStructures() {
		out = append(out, catalogEntry{Kind: "structure", Value: o.Value, Label: o.Label, Pro: o.Pro})
	}
	return out
}

func renderCatalog(w io.Writer, custom []intent.CustomIntent, asJSON bool) error {
	entries := catalogEntries(custom)
	if asJSON {
		return printJSON(w, entries)
	}

	intents := newTable(w, table.Row{"Group", "Intent", "Label", "Pro"})
	structures := newTable(w, table.Row{"Structure", "Label", "Pro"})
	for _, e := range entries {
		if e.Kind == "intent" {
			intents.AppendRow(table.Row{e.Group, e.Value, e.Label, yesNo(e.Pro)})
		} else {
			structures.AppendRow(table.Row{e.Value, e.Label, yesNo(e.Pro)})
		}
	}
	intents.Render()
	structures.Render()
	return nil
}
