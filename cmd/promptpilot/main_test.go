package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/promptpilot/internal/config"
	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/eventlog"
	"github.com/sant0-9/promptpilot/internal/intent"
	"github.com/sant0-9/promptpilot/internal/store"
)

func testDeps(t *testing.T, baseURL string) *deps {
	t.Helper()
	db, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	cfg.Provider = "custom"
	cfg.BaseURL = baseURL

	settings := store.NewSettings(db)
	return &deps{
		cfg:      cfg,
		log:      zerolog.Nop(),
		db:       db,
		settings: settings,
		gate:     entitlement.NewGate(settings),
		events:   eventlog.New(zerolog.Nop(), eventlog.StoreSink{DB: db.DB()}),
		apiKey:   "sk-test",
	}
}

func sseServer(t *testing.T, deltas ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			data, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{{"delta": map[string]string{"content": d}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReadInput(t *testing.T) {
	got, err := readInput([]string{"improve:", "hello"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "improve: hello", got)

	got, err = readInput(nil, strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", got)
}

func TestNewProfile(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	p, err := newProfile("free", 7, "trialing", now)
	require.NoError(t, err)
	require.NotNil(t, p.TrialEndsAt)
	assert.Equal(t, now.Add(7*24*time.Hour), *p.TrialEndsAt)
	assert.True(t, entitlement.PlanFromProfile(&p, now).CanUsePro)

	p, err = newProfile("pro", 0, "", now)
	require.NoError(t, err)
	assert.Nil(t, p.TrialEndsAt)

	_, err = newProfile("gold", 0, "", now)
	assert.Error(t, err)
	_, err = newProfile("free", -1, "", now)
	assert.Error(t, err)
}

func TestRenderCatalog(t *testing.T) {
	c, err := intent.NewCustom("Pirate", "Talk like a pirate")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderCatalog(&buf, []intent.CustomIntent{c}, false))
	out := buf.String()
	assert.Contains(t, out, "general_polish")
	assert.Contains(t, out, "Pirate")
	assert.Contains(t, out, "markdown_table")

	buf.Reset()
	require.NoError(t, renderCatalog(&buf, nil, true))
	var entries []catalogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Len(t, entries, len(intent.FreeIntents())+len(intent.ProIntents())+len(intent.AllStructures()))
}

func TestBuildRequest(t *testing.T) {
	ctx := context.Background()
	d := testDeps(t, "http://unused")
	c, err := d.settings.AddCustomIntent(ctx, "Pirate", "Talk like a pirate")
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       string
		opts        improveOptions
		wantText    string
		wantIntent  intent.Intent
		wantCustom  string
		wantErrText string
	}{
		{
			name:       "phrase",
			input:      "Hi improve: make it nice ",
			opts:       improveOptions{intent: "general_polish", structure: "para"},
			wantText:   "make it nice",
			wantIntent: intent.GeneralPolish,
		},
		{
			name:       "no phrase uses everything",
			input:      "  whole thing ",
			opts:       improveOptions{intent: "summarize", structure: "bullets"},
			wantText:   "whole thing",
			wantIntent: intent.Summarize,
		},
		{
			name:       "custom by label",
			input:      "text",
			opts:       improveOptions{intent: "general_polish", structure: "para", custom: "pirate"},
			wantText:   "text",
			wantIntent: intent.Intent(c.ID),
			wantCustom: "Talk like a pirate",
		},
		{
			name:        "unknown intent",
			input:       "text",
			opts:        improveOptions{intent: "nope", structure: "para"},
			wantErrText: "unknown intent",
		},
		{
			name:        "unknown structure",
			input:       "text",
			opts:        improveOptions{intent: "general_polish", structure: "nope"},
			wantErrText: "unknown structure",
		},
		{
			name:        "missing custom",
			input:       "text",
			opts:        improveOptions{intent: "general_polish", structure: "para", custom: "ghost"},
			wantErrText: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := buildRequest(ctx, d, tt.input, tt.opts)
			if tt.wantErrText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, req.OriginalText)
			assert.Equal(t, tt.wantIntent, req.Intent)
			assert.Equal(t, tt.wantCustom, req.CustomInstruction)
		})
	}
}

func TestRunImproveStreams(t *testing.T) {
	srv := sseServer(t, "Hel", "lo", " world")
	d := testDeps(t, srv.URL)
	ctx := context.Background()

	var out bytes.Buffer
	err := runImprove(ctx, d, &out, "improve: hi", improveOptions{intent: "general_polish", structure: "para"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n", out.String())

	r, err := d.gate.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count)

	events, err := eventlog.Recent(ctx, d.db.DB(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, eventlog.ImproveClicked, events[0].Type)
}

func TestRunImproveStripsEchoedDelimiters(t *testing.T) {
	srv := sseServer(t, "\"\"\"", "\nHello", "\n", "\"\"\"")
	d := testDeps(t, srv.URL)

	var out bytes.Buffer
	err := runImprove(context.Background(), d, &out, "improve: hi", improveOptions{intent: "general_polish", structure: "para"})
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", out.String())
}

func TestVisible(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"\"", ""},
		{"\"\"\"", ""},
		{"\"\"\"\nHel", "Hel"},
		{"\"\"\"\nHello\n\"\"", "Hello"},
		{"Say \"hi\"", "Say \"hi"},
		{"plain text ", "plain text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, visible(tt.raw), "raw %q", tt.raw)
	}
}

func TestConnectProviderDefaultModel(t *testing.T) {
	ctx := context.Background()
	d := testDeps(t, "")
	d.cfg.Provider = "groq"
	d.cfg.BaseURL = ""

	stored, err := d.settings.Model(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	p, err := d.connect("sk-test", stored)
	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())
	assert.Equal(t, "llama-3.1-8b-instant", p.Model())

	model, err := d.model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", model)

	d.cfg.Provider = "openai"
	model, err = d.model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", model)

	require.NoError(t, d.settings.SetModel(ctx, "llama-3.3-70b-versatile"))
	model, err = d.model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", model)
}

func TestRunImproveReplace(t *testing.T) {
	srv := sseServer(t, "Dear team,", " please review.")
	d := testDeps(t, srv.URL)

	var out bytes.Buffer
	err := runImprove(context.Background(), d, &out, "Notes\nimprove: pls review",
		improveOptions{intent: "general_polish", structure: "para", replace: true})
	require.NoError(t, err)
	assert.Equal(t, "Notes\nDear team, please review.\n", out.String())
}

func TestRunImproveErrors(t *testing.T) {
	srv := sseServer(t, "unused")
	d := testDeps(t, srv.URL)

	err := runImprove(context.Background(), d, &bytes.Buffer{}, "improve:   ",
		improveOptions{intent: "general_polish", structure: "para"})
	require.Error(t, err)
	assert.Equal(t, "No text to improve.", err.Error())

	err = runImprove(context.Background(), d, &bytes.Buffer{}, "improve: x",
		improveOptions{intent: "cot", structure: "para"})
	require.Error(t, err)
	assert.Equal(t, "Upgrade to Pro to use this feature.", err.Error())
}

func TestDescribePayload(t *testing.T) {
	got := describePayload(eventlog.Payload{
		"structure": "para",
		"intent":    "general_polish",
		"domain":    "cli",
	})
	assert.Equal(t, "domain=cli intent=General Polish structure=Paragraph", got)

	assert.Equal(t, "intent=my-custom", describePayload(eventlog.Payload{"intent": "my-custom"}))
	assert.Empty(t, describePayload(nil))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "not set", maskKey(""))
	assert.Equal(t, "****", maskKey("abc"))
	assert.Equal(t, "sk-1****7890", maskKey("sk-1234567890"))
}

func TestImportIntents(t *testing.T) {
	ctx := context.Background()
	d := testDeps(t, "http://unused")
	_, err := d.settings.AddCustomIntent(ctx, "Pirate", "Talk like a pirate")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pirate.md"), []byte("---\nlabel: pirate\n---\nArr."), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "haiku.md"), []byte("Write a haiku."), 0600))

	added, err := importIntents(ctx, d, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	list, err := d.settings.CustomIntents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "haiku", list[1].Label)

	added, err = importIntents(ctx, d, dir)
	require.NoError(t, err)
	assert.Zero(t, added, "import is idempotent by label")
}
