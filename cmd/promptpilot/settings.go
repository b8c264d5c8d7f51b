package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sant0-9/promptpilot/internal/config"
	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/eventlog"
	"github.com/sant0-9/promptpilot/internal/intent"
)

func keyCmd() *cobra.Command {
	k := &cobra.Command{Use: "key", Short: "Manage the provider API key"}
	k.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Store the API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				if err := d.settings.SetAPIKey(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key saved")
				return nil
			})
		},
	})
	k.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the masked API key and where it comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				source := "store"
				if d.apiKey != "" {
					source = "environment"
				}
				key, err := d.key(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", maskKey(key), source)
				return nil
			})
		},
	})
	return k
}

func maskKey(key string) string {
	if key == "" {
		return "not set"
	}
	if len(key) > 8 {
		return key[:4] + "****" + key[len(key)-4:]
	}
	return "****"
}

func modelCmd() *cobra.Command {
	m := &cobra.Command{Use: "model", Short: "Show or choose the chat model"}
	m.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the chosen model and the provider's suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				model, err := d.model(ctx)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout(), table.Row{"Model", "Current"})
				seen := false
				if p := config.GetProvider(d.cfg.Provider); p != nil {
					for _, name := range p.Models {
						seen = seen || name == model
						tw.AppendRow(table.Row{name, yesNo(name == model)})
					}
				}
				if !seen && model != "" {
					tw.AppendRow(table.Row{model, yesNo(true)})
				}
				tw.Render()
				return nil
			})
		},
	})
	m.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Choose the chat model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				if err := d.settings.SetModel(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "model set to", args[0])
				return nil
			})
		},
	})
	return m
}

func intentsCmd() *cobra.Command {
	in := &cobra.Command{Use: "intents", Short: "Manage custom intents"}
	in.AddCommand(intentsListCmd())
	in.AddCommand(intentsAddCmd())
	in.AddCommand(intentsRemoveCmd())
	in.AddCommand(intentsImportCmd())
	return in
}

func intentsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Add custom intents from markdown files (default ~/.config/promptpilot/intents)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			} else {
				base, err := config.ConfigDir()
				if err != nil {
					return err
				}
				dir = filepath.Join(base, "intents")
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				added, err := importIntents(ctx, d, dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d custom intents\n", added)
				return nil
			})
		},
	}
}

// importIntents stores every draft in dir whose label is not taken yet
func importIntents(ctx context.Context, d *deps, dir string) (int, error) {
	drafts, errs := intent.LoadDrafts(dir)
	for _, err := range errs {
		d.log.Warn().Err(err).Msg("skip intent file")
	}
	if len(drafts) == 0 && len(errs) > 0 {
		return 0, errs[0]
	}

	existing, err := d.settings.CustomIntents(ctx)
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[strings.ToLower(c.Label)] = true
	}

	added := 0
	for _, draft := range drafts {
		if taken[strings.ToLower(draft.Label)] {
			d.log.Info().Str("label", draft.Label).Msg("custom intent exists, skipping")
			continue
		}
		if _, err := d.settings.AddCustomIntent(ctx, draft.Label, draft.Instruction); err != nil {
			return added, fmt.Errorf("%s: %w", draft.Path, err)
		}
		taken[strings.ToLower(draft.Label)] = true
		added++
	}
	return added, nil
}

func intentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom intents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				list, err := d.settings.CustomIntents(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), list)
				}
				tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Label", "Instruction"})
				for _, c := range list {
					tw.AppendRow(table.Row{c.ID, c.Label, c.Instruction})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func intentsAddCmd() *cobra.Command {
	var label, instruction string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom intent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				c, err := d.settings.AddCustomIntent(ctx, label, instruction)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "display label")
	cmd.Flags().StringVar(&instruction, "instruction", "", "instruction sent to the model")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("instruction")
	return cmd
}

func intentsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a custom intent",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				return d.settings.DeleteCustomIntent(ctx, args[0])
			})
		},
	}
}

func profileCmd() *cobra.Command {
	p := &cobra.Command{Use: "profile", Short: "Manage the subscription profile"}
	p.AddCommand(profileShowCmd())
	p.AddCommand(profileSetCmd())
	p.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Sign out: remove the profile and the daily usage counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				return d.settings.ClearProfile(ctx)
			})
		},
	})
	return p
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored profile and the plan derived from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				profile, err := d.settings.Profile(ctx)
				if err != nil {
					return err
				}
				plan := entitlement.PlanFromProfile(profile, time.Now())
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), map[string]any{"profile": profile, "plan": plan})
				}
				tw := newTable(cmd.OutOrStdout(), table.Row{"Tier", "Trial ends", "Status", "Pro features", "Metered"})
				trial, status := "", ""
				if profile != nil {
					status = profile.SubscriptionStatus
					if profile.TrialEndsAt != nil {
						trial = profile.TrialEndsAt.Local().Format(time.DateTime)
					}
				}
				tw.AppendRow(table.Row{plan.Tier, trial, status, yesNo(plan.CanUsePro), yesNo(plan.Metered())})
				tw.Render()
				return nil
			})
		},
	}
}

func profileSetCmd() *cobra.Command {
	var (
		tier      string
		trialDays int
		status    string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a subscription profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := newProfile(tier, trialDays, status, time.Now())
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				return d.settings.SetProfile(ctx, profile)
			})
		},
	}
	cmd.Flags().StringVar(&tier, "tier", entitlement.TierFree, "free or pro")
	cmd.Flags().IntVar(&trialDays, "trial-days", 0, "days of Pro trial from now")
	cmd.Flags().StringVar(&status, "status", "", "subscription status")
	return cmd
}

func newProfile(tier string, trialDays int, status string, now time.Time) (entitlement.Profile, error) {
	if tier != entitlement.TierFree && tier != entitlement.TierPro {
		return entitlement.Profile{}, fmt.Errorf("tier must be %q or %q", entitlement.TierFree, entitlement.TierPro)
	}
	if trialDays < 0 {
		return entitlement.Profile{}, errors.New("trial-days must not be negative")
	}
	p := entitlement.Profile{Tier: tier, SubscriptionStatus: status}
	if trialDays > 0 {
		ends := now.Add(time.Duration(trialDays) * 24 * time.Hour)
		p.TrialEndsAt = &ends
	}
	return p, nil
}

func usageCmd() *cobra.Command {
	u := &cobra.Command{
		Use:   "usage",
		Short: "Show today's free tier usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				r, err := d.gate.Usage(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"count": r.Count, "limit": r.Limit, "remaining": r.Remaining(), "resets_at": r.ResetsAt,
					})
				}
				tw := newTable(cmd.OutOrStdout(), table.Row{"Used", "Limit", "Remaining", "Resets"})
				tw.AppendRow(table.Row{r.Count, r.Limit, r.Remaining(), r.ResetsAt.Local().Format(time.DateTime)})
				tw.Render()
				return nil
			})
		},
	}
	u.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the daily counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				return d.gate.Reset(ctx)
			})
		},
	})
	return u
}

func eventsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent usage events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				events, err := eventlog.Recent(ctx, d.db.DB(), limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), events)
				}
				tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Time", "Type", "Payload"})
				for _, e := range events {
					tw.AppendRow(table.Row{e.ID, e.TS.Local().Format(time.DateTime), e.Type, describePayload(e.Payload)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events")
	return cmd
}

// describePayload renders a payload as sorted key=value pairs with catalog
// values shown by label
func describePayload(p eventlog.Payload) string {
	parts := make([]string, 0, len(p))
	for _, k := range slices.Sorted(maps.Keys(p)) {
		v := fmt.Sprint(p[k])
		if k == "intent" || k == "structure" {
			v = intent.LabelFor(v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the API key against the provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				key, err := d.key(ctx)
				if err != nil {
					return err
				}
				model, err := d.model(ctx)
				if err != nil {
					return err
				}
				provider, err := d.connect(key, model)
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
				if err := provider.Ping(ctx); err != nil {
					return fmt.Errorf("%s: %w", provider.Name(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s OK (model %s)\n", provider.Name(), model)
				return nil
			})
		},
	}
}
