package security

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogEntry records one rejected query in the audit trail.
type LogEntry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Threats   []Threat  `json:"threats"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an append-only audit trail of rejected queries. It is safe for
// concurrent appends; entries are never pruned by the pipeline.
type Log struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLog creates an empty security log.
func NewLog() *Log {
	return &Log{}
}

// Record appends a rejected query and its threats with the current timestamp
// and returns the stored entry.
func (l *Log) Record(query string, threats []Threat) LogEntry {
	entry := LogEntry{
		ID:        uuid.NewString(),
		Query:     query,
		Threats:   threats,
		Timestamp: time.Now().UTC(),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	return entry
}

// Entries returns a snapshot of the log in append order.
func (l *Log) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]LogEntry, len(l.entries))
	copy(snapshot, l.entries)
	return snapshot
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
