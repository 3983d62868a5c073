package store

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/danmuck/camelwire/internal/protocol/ros"
)

// Event is one recorded component.
type Event struct {
	ID           string    `db:"id" json:"id"`
	RecordedAt   time.Time `db:"recorded_at" json:"recorded_at"`
	Protocol     string    `db:"protocol" json:"protocol"`
	Kind         string    `db:"kind" json:"kind"`
	InvokeID     *int64    `db:"invoke_id" json:"invoke_id,omitempty"`
	LinkedID     *int64    `db:"linked_id" json:"linked_id,omitempty"`
	Opcode       string    `db:"opcode" json:"opcode,omitempty"`
	Operation    string    `db:"operation" json:"operation,omitempty"`
	Errcode      string    `db:"errcode" json:"errcode,omitempty"`
	ErrorName    string    `db:"error_name" json:"error_name,omitempty"`
	Status       string    `db:"status" json:"status"`
	ACN          string    `db:"acn" json:"acn,omitempty"`
	OTID         string    `db:"otid" json:"otid,omitempty"`
	DTID         string    `db:"dtid" json:"dtid,omitempty"`
	PayloadBytes int64     `db:"payload_bytes" json:"payload_bytes"`
	Err          string    `db:"err" json:"err,omitempty"`
}

// Stat counts events sharing protocol, kind, names and status.
type Stat struct {
	Protocol     string `db:"protocol" json:"protocol"`
	Kind         string `db:"kind" json:"kind"`
	Operation    string `db:"operation" json:"operation,omitempty"`
	ErrorName    string `db:"error_name" json:"error_name,omitempty"`
	Status       string `db:"status" json:"status"`
	Count        int64  `db:"count" json:"count"`
	PayloadBytes int64  `db:"payload_bytes" json:"payload_bytes"`
}

// Store records operation events. It is a ros.Observer; recording errors
// are logged because observers cannot fail a decode.
type Store struct {
	db  *sqlx.DB
	q   *Queries
	log zerolog.Logger
	now func() time.Time
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces time.Now for recorded timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

var _ ros.Observer = (*Store)(nil)

// OpenStore connects to dsn and creates the schema if needed.
func OpenStore(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the schema if needed.
func New(ctx context.Context, db *sqlx.DB, opts ...Option) (*Store, error) {
	q, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, q: q, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	for _, name := range []string{"create-operation-events", "create-operation-events-invoke-index"} {
		if _, err := q.Exec(ctx, name); err != nil {
			return nil, fmt.Errorf("store schema %s: %w", name, err)
		}
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Observe(ev ros.OperationEvent) {
	if _, err := s.Record(context.Background(), ev); err != nil {
		s.log.Warn().Err(err).Str("kind", ev.Kind.String()).Msg("operation event not recorded")
	}
}

// Record inserts ev and returns the stored row.
func (s *Store) Record(ctx context.Context, ev ros.OperationEvent) (Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Event{}, fmt.Errorf("event id: %w", err)
	}
	row := Event{
		ID:           id.String(),
		RecordedAt:   s.now().UTC(),
		Protocol:     ev.Protocol,
		Kind:         ev.Kind.String(),
		InvokeID:     ev.InvokeID,
		LinkedID:     ev.LinkedID,
		Operation:    ev.OperationName,
		ErrorName:    ev.ErrorName,
		Status:       ev.Status.String(),
		OTID:         hex.EncodeToString(ev.OTID),
		DTID:         hex.EncodeToString(ev.DTID),
		PayloadBytes: int64(ev.PayloadBytes),
	}
	if ev.Operation != nil {
		row.Opcode = ev.Operation.String()
	}
	if ev.Error != nil {
		row.Errcode = ev.Error.String()
	}
	if len(ev.ApplicationContext) > 0 {
		row.ACN = ev.ApplicationContext.String()
	}
	if ev.Err != nil {
		row.Err = ev.Err.Error()
	}
	_, err = s.q.Exec(ctx, "insert-operation-event",
		row.ID, row.RecordedAt, row.Protocol, row.Kind, row.InvokeID, row.LinkedID,
		row.Opcode, row.Operation, row.Errcode, row.ErrorName, row.Status, row.ACN,
		row.OTID, row.DTID, row.PayloadBytes, row.Err,
	)
	if err != nil {
		return Event{}, fmt.Errorf("insert operation event: %w", err)
	}
	return row, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.Get(ctx, "count-operation-events", &n); err != nil {
		return 0, fmt.Errorf("count operation events: %w", err)
	}
	return n, nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []Event
	if err := s.q.Select(ctx, "list-recent-events", &out, limit); err != nil {
		return nil, fmt.Errorf("recent operation events: %w", err)
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) ([]Stat, error) {
	var out []Stat
	if err := s.q.Select(ctx, "operation-stats", &out); err != nil {
		return nil, fmt.Errorf("operation stats: %w", err)
	}
	return out, nil
}

// Pending lists invokes recorded at least olderThan ago that have not
// been answered by a result, error or reject in the same transaction.
func (s *Store) Pending(ctx context.Context, olderThan time.Duration) ([]Event, error) {
	cutoff := s.now().UTC().Add(-olderThan)
	var out []Event
	if err := s.q.Select(ctx, "list-pending-invokes", &out, cutoff); err != nil {
		return nil, fmt.Errorf("pending invokes: %w", err)
	}
	return out, nil
}

// Prune deletes events recorded before cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.q.Exec(ctx, "delete-events-before", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune operation events: %w", err)
	}
	return res.RowsAffected()
}
