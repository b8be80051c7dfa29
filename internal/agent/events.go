package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// EventQuestionAnswered is logged once per answered question.
const EventQuestionAnswered = "question_answered"

// ErrMissingEventType is returned for events without an EventType.
var ErrMissingEventType = errors.New("event_type is required")

// Event is one analytics record in the study_events table.
type Event struct {
	SessionID string
	Channel   string
	EventType string
	Data      map[string]any
	CreatedAt time.Time
}

// EventLogger records analytics events. Implementations must not let a
// cancelled request drop an event that was already accepted.
type EventLogger interface {
	LogEvent(ctx context.Context, event Event) error
}

// prepare validates event and fills defaults.
func prepare(event Event) (Event, error) {
	if event.EventType == "" {
		return Event{}, ErrMissingEventType
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Data == nil {
		event.Data = map[string]any{}
	}
	return event, nil
}

// NopEventLogger discards events.
type NopEventLogger struct{}

func (NopEventLogger) LogEvent(context.Context, Event) error {
	return nil
}

// MemoryEventLogger keeps events in memory. Used by tests and local runs.
type MemoryEventLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{}
}

func (l *MemoryEventLogger) LogEvent(_ context.Context, event Event) error {
	event, err := prepare(event)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

// Events returns a copy of everything logged so far, oldest first.
func (l *MemoryEventLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

// PostgresEventLogger appends events to study_events. The table is created
// by database.Migrate.
type PostgresEventLogger struct {
	pool *pgxpool.Pool
}

func NewPostgresEventLogger(pool *pgxpool.Pool) *PostgresEventLogger {
	return &PostgresEventLogger{pool: pool}
}

const insertEvent = `INSERT INTO study_events (session_id, channel, event_type, data, created_at)
VALUES ($1, $2, $3, $4::jsonb, $5)`

func (l *PostgresEventLogger) LogEvent(ctx context.Context, event Event) error {
	if l == nil || l.pool == nil {
		return errors.New("event logger has no database pool")
	}
	event, err := prepare(event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("encoding %s event data: %w", event.EventType, err)
	}

	// The request may already be finished; the write has its own deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dbTimeout)
	defer cancel()

	if _, err := l.pool.Exec(ctx, insertEvent,
		event.SessionID, event.Channel, event.EventType, string(data), event.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting %s event: %w", event.EventType, err)
	}

	slog.Debug("event logged", "type", event.EventType, "session_id", event.SessionID, "channel", event.Channel)
	return nil
}
