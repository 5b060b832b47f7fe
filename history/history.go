// Package history keeps a log of submitted contract invocations.
package history

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

type Entry struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Account   string    `json:"account"`
	NetworkID string    `json:"network_id"`
	Operation string    `json:"operation"`
	Name      string    `json:"name"`
	Blocks    uint64    `json:"blocks"`
	Fee       string    `json:"fee"`
	TxHash    string    `json:"tx_hash,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Error     string    `json:"error,omitempty"`
}

// NewEntry returns an entry with a fresh id and the current time.
func NewEntry() *Entry {
	return &Entry{
		ID:   uuid.New().String(),
		Time: time.Now().UTC(),
		Fee:  "0",
	}
}

type Store interface {
	Add(e *Entry) error
	// List returns up to limit entries, newest first. A non-positive limit
	// returns everything.
	List(limit int) ([]*Entry, error)
	Close() error
}
