package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record is one answered question.
type Record struct {
	ID        string
	SessionID string
	UserID    string
	Locale    string
	Route     string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Sink persists audit records. Callers treat failures as non-fatal.
type Sink interface {
	Record(ctx context.Context, rec Record) error
	Close() error
}

func (r *Record) fillDefaults() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

// LogSink writes records to the structured log. It is used when no database is
// configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, rec Record) error {
	rec.fillDefaults()
	s.logger.Info("chat answered",
		zap.String("audit_id", rec.ID),
		zap.String("session_id", rec.SessionID),
		zap.String("user_id", rec.UserID),
		zap.String("locale", rec.Locale),
		zap.String("route", rec.Route),
		zap.Int("question_len", len(rec.Question)),
		zap.Int("answer_len", len(rec.Answer)),
	)
	return nil
}

func (s *LogSink) Close() error {
	return nil
}

// MemorySink keeps records in memory.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
	err     error
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// FailWith makes every later Record call return err.
func (s *MemorySink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemorySink) Record(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	rec.fillDefaults()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything recorded so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

func (s *MemorySink) Close() error {
	return nil
}

// NewSink returns a PostgresSink when databaseURL is set and a LogSink otherwise.
func NewSink(ctx context.Context, databaseURL string, logger *zap.Logger) (Sink, error) {
	if databaseURL == "" {
		return NewLogSink(logger), nil
	}
	return NewPostgresSink(ctx, databaseURL)
}
