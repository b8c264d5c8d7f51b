package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sant0-9/promptpilot/internal/config"
	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/eventlog"
	"github.com/sant0-9/promptpilot/internal/improve"
	"github.com/sant0-9/promptpilot/internal/llm"
	"github.com/sant0-9/promptpilot/internal/logging"
	"github.com/sant0-9/promptpilot/internal/store"
	"github.com/sant0-9/promptpilot/internal/tui"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "promptpilot",
	Short:   "Rewrite text with an LLM using a catalog of intents and output structures",
	Version: version,
	Long: `PromptPilot improves a piece of text through an OpenAI-compatible chat API.

Write the trigger phrase (default "improve:") before the text you want
rewritten, pick an intent and a structure, and replace the original with the
streamed result. Run without a subcommand for the interactive editor.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func main() {
	_ = godotenv.Load()

	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PROMPTPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("api-key", "PROMPTPILOT_API_KEY", "OPENAI_API_KEY")
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ~/.config/promptpilot/config.yaml)")
	flags.String("provider", "", "provider id: openai, openrouter, groq or custom")
	flags.String("base-url", "", "base URL of an OpenAI-compatible endpoint")
	flags.String("trigger", "", "trigger phrase")
	flags.String("db", "", "settings database path")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("domain", "terminal", "domain recorded with events")
	flags.Bool("json", false, "output JSON")
	for _, name := range []string{"config", "provider", "base-url", "trigger", "db", "log-level", "domain", "json"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(improveCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(keyCmd())
	rootCmd.AddCommand(modelCmd())
	rootCmd.AddCommand(intentsCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(usageCmd())
	rootCmd.AddCommand(eventsCmd())
	rootCmd.AddCommand(pingCmd())
}

// loadConfig reads the config file and applies flag and environment overrides
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := viper.GetString("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.WithDefaults()

	if v := viper.GetString("provider"); v != "" {
		cfg.Provider = v
	}
	if v := viper.GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("trigger"); v != "" {
		cfg.Trigger = v
	}
	if v := viper.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// deps is everything a command needs to talk to storage and the provider
type deps struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *store.SQLite
	settings *store.Settings
	gate     *entitlement.Gate
	events   eventlog.Logger
	apiKey   string
}

func openDeps(cfg *config.Config, log zerolog.Logger) (*deps, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	settings := store.NewSettings(db)

	return &deps{
		cfg:      cfg,
		log:      log,
		db:       db,
		settings: settings,
		gate:     entitlement.NewGate(settings),
		events:   eventlog.New(log, eventlog.ZerologSink{Logger: log}, eventlog.StoreSink{DB: db.DB()}),
		apiKey:   strings.TrimSpace(viper.GetString("api-key")),
	}, nil
}

func (d *deps) Close() error {
	return d.db.Close()
}

func (d *deps) connect(apiKey, model string) (llm.Provider, error) {
	return llm.NewProvider(d.cfg, apiKey, model)
}

// model returns the stored model or the configured provider's default
func (d *deps) model(ctx context.Context) (string, error) {
	model, err := d.settings.Model(ctx)
	if err != nil || model != "" {
		return model, err
	}
	return d.cfg.DefaultModel(), nil
}

// key returns the environment key when set, otherwise the stored one
func (d *deps) key(ctx context.Context) (string, error) {
	if d.apiKey != "" {
		return d.apiKey, nil
	}
	return d.settings.APIKey(ctx)
}

func (d *deps) session(opts ...improve.Option) *improve.Session {
	mode := improve.ModeStream
	if !d.cfg.Streaming() {
		mode = improve.ModeComplete
	}
	base := []improve.Option{
		improve.WithMode(mode),
		improve.WithEvents(d.events),
		improve.WithLogger(d.log),
		improve.WithAPIKey(d.apiKey),
	}
	return improve.New(d.settings, d.gate, d.connect, append(base, opts...)...)
}

// withDeps runs fn with a console logger on stderr
func withDeps(ctx context.Context, fn func(ctx context.Context, d *deps) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogLevel, true)
	d, err := openDeps(cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(ctx, d)
}

func runTUI(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// the alt screen owns the terminal, so logs go to a file
	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	log, logFile, err := logging.OpenFile(logPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	d, err := openDeps(cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	app := tui.NewApp(tui.Options{
		Config:   cfg,
		Settings: d.settings,
		Gate:     d.gate,
		Events:   d.events,
		Log:      log,
		Connect:  d.connect,
		APIKey:   d.apiKey,
		Domain:   viper.GetString("domain"),
	})
	defer app.Shutdown()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	log.Info().Str("provider", cfg.Provider).Msg("tui started")
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
