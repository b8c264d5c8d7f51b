// Package eventlog records usage events (trigger detected, improve clicked,
// result replaced or copied, overlay closed). Logging never fails the caller.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Type string

const (
	TriggerDetected Type = "trigger_detected"
	ImproveClicked  Type = "improve_clicked"
	ResultReplaced  Type = "result_replaced"
	ResultCopied    Type = "result_copied"
	OverlayClosed   Type = "overlay_closed"
)

type Payload map[string]any

// Logger accepts events. Implementations swallow their own failures.
type Logger interface {
	Log(ctx context.Context, evt Type, payload Payload)
}

// Sink is a destination that can fail
type Sink interface {
	Write(ctx context.Context, evt Type, payload Payload) error
}

// Log fans events out to sinks and reports sink errors to a zerolog logger
type Log struct {
	sinks []Sink
	log   zerolog.Logger
}

func New(log zerolog.Logger, sinks ...Sink) *Log {
	return &Log{sinks: sinks, log: log}
}

func (l *Log) Log(ctx context.Context, evt Type, payload Payload) {
	for _, s := range l.sinks {
		if err := s.Write(ctx, evt, payload); err != nil {
			l.log.Warn().Err(err).Str("event", string(evt)).Msg("event sink failed")
		}
	}
}

// Nop discards events
type Nop struct{}

func (Nop) Log(context.Context, Type, Payload) {}

// ZerologSink writes each event as a structured log line
type ZerologSink struct {
	Logger zerolog.Logger
}

func (z ZerologSink) Write(_ context.Context, evt Type, payload Payload) error {
	z.Logger.Info().Str("event_type", string(evt)).Fields(map[string]any(payload)).Msg("event")
	return nil
}

// StoreSink appends events to the events table
type StoreSink struct {
	DB  *sql.DB
	Now func() time.Time
}

func (w StoreSink) Write(ctx context.Context, evt Type, payload Payload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx, `INSERT INTO events(ts,type,payload_json) VALUES (?,?,?)`,
		ts, string(evt), string(data))
	return err
}

// Event is a stored event
type Event struct {
	ID      int64
	TS      time.Time
	Type    Type
	Payload Payload
}

// Recent returns the newest events first
func Recent(ctx context.Context, db *sql.DB, limit int) ([]Event, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, ts, type, payload_json FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e       Event
			ts, typ string
			raw     string
		)
		if err := rows.Scan(&e.ID, &ts, &typ, &raw); err != nil {
			return nil, err
		}
		e.Type = Type(typ)
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.TS = t
		}
		if err := json.Unmarshal([]byte(raw), &e.Payload); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
