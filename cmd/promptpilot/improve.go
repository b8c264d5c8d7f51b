package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sant0-9/promptpilot/internal/improve"
	"github.com/sant0-9/promptpilot/internal/intent"
	"github.com/sant0-9/promptpilot/internal/prompts"
	"github.com/sant0-9/promptpilot/internal/trigger"
)

type improveOptions struct {
	intent    string
	structure string
	custom    string
	replace   bool
}

func improveCmd() *cobra.Command {
	opts := improveOptions{}
	cmd := &cobra.Command{
		Use:   "improve [text...]",
		Short: "Improve text from arguments or stdin and print the result",
		Long: `Improve reads the text from its arguments, or from stdin when there are
none. When the text holds the trigger phrase only what follows its last
occurrence is sent. With --replace the full text is printed with the
phrase and everything after it replaced by the result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return withDeps(ctx, func(ctx context.Context, d *deps) error {
				return runImprove(ctx, d, cmd.OutOrStdout(), input, opts)
			})
		},
	}
	in, st := intent.RefinementDefaults()
	cmd.Flags().StringVarP(&opts.intent, "intent", "i", string(in), "intent value, see 'promptpilot catalog'")
	cmd.Flags().StringVarP(&opts.structure, "structure", "s", string(st), "output structure value")
	cmd.Flags().StringVar(&opts.custom, "custom", "", "custom intent id or label, overrides --intent")
	cmd.Flags().BoolVar(&opts.replace, "replace", false, "print the input with the result substituted")
	return cmd
}

func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// buildRequest resolves the selection flags into a session request
func buildRequest(ctx context.Context, d *deps, input string, opts improveOptions) (improve.Request, error) {
	text, ok := trigger.Extract(input, d.cfg.Trigger)
	if !ok {
		text = strings.TrimSpace(input)
	}

	req := improve.Request{
		OriginalText: text,
		Intent:       intent.Intent(opts.intent),
		Structure:    intent.Structure(opts.structure),
		Domain:       viper.GetString("domain"),
	}
	if !req.Structure.Known() {
		return req, fmt.Errorf("unknown structure %q", opts.structure)
	}

	if opts.custom == "" {
		if !req.Intent.Known() {
			return req, fmt.Errorf("unknown intent %q", opts.intent)
		}
		return req, nil
	}

	list, err := d.settings.CustomIntents(ctx)
	if err != nil {
		return req, err
	}
	for _, c := range list {
		if c.ID == opts.custom || strings.EqualFold(c.Label, opts.custom) {
			req.Intent = intent.Intent(c.ID)
			req.CustomInstruction = c.Instruction
			return req, nil
		}
	}
	return req, fmt.Errorf("custom intent %q not found", opts.custom)
}

func runImprove(ctx context.Context, d *deps, out io.Writer, input string, opts improveOptions) error {
	req, err := buildRequest(ctx, d, input, opts)
	if err != nil {
		return err
	}

	// stream deltas unless the caller wants the reconstructed text
	printed := ""
	streaming := !opts.replace && !viper.GetBool("json")
	sess := d.session(improve.OnUpdate(func(s improve.State) {
		if !streaming || s.Phase != improve.Streaming {
			return
		}
		if v := visible(s.ResultText); strings.HasPrefix(v, printed) {
			fmt.Fprint(out, v[len(printed):])
			printed = v
		}
	}))

	if err := sess.Submit(ctx, req); err != nil {
		var e *improve.Error
		if errors.As(err, &e) {
			return errors.New(e.Message)
		}
		return err
	}

	st := sess.State()
	if st.Phase != improve.Done {
		// canceled
		return ctx.Err()
	}

	switch {
	case viper.GetBool("json"):
		return printJSON(out, map[string]string{
			"intent":    string(req.Intent),
			"structure": string(req.Structure),
			"result":    st.ResultText,
		})
	case opts.replace:
		fmt.Fprintln(out, trigger.Reconstruct(input, d.cfg.Trigger, st.ResultText))
	case strings.HasPrefix(st.ResultText, printed):
		fmt.Fprintln(out, st.ResultText[len(printed):])
	default:
		fmt.Fprintln(out)
		fmt.Fprintln(out, st.ResultText)
	}
	return nil
}

// visible is the part of a partial response that is safe to print: an
// echoed opening delimiter is dropped and anything that could still turn
// into the closing one is held back, so the output stays a prefix of the
// final stripped text.
func visible(raw string) string {
	if strings.HasPrefix(prompts.Delimiter, raw) {
		return ""
	}
	body := strings.TrimLeftFunc(strings.TrimPrefix(raw, prompts.Delimiter), unicode.IsSpace)
	return strings.TrimRightFunc(body, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(prompts.Delimiter, r)
	})
}
