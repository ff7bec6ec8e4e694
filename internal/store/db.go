package store

import (
	"context"
	"errors"
	"time"

	"github.com/gridrun/grid-runner-go/internal/snapshot"
)

// ErrNotFound marks a lookup for a player with no saved game. It is a
// normal, expected outcome, distinct from a store failure.
var ErrNotFound = errors.New("save not found")

// DB is the persistence boundary for saved games. One document per player
// name; saving always overwrites lastSaved server-side.
type DB interface {
	Close() error
	Migrate() error
	Ping(ctx context.Context) error
	SaveGame(ctx context.Context, doc *snapshot.Document) (time.Time, error)
	LoadGame(ctx context.Context, playerName string) (*snapshot.Document, error)
	ListSaves(ctx context.Context) ([]SaveSummary, error)
	DeleteGame(ctx context.Context, playerName string) error
}

// SaveSummary is one row of the save browser.
type SaveSummary struct {
	PlayerName string    `json:"playerName"`
	Difficulty string    `json:"difficulty"`
	LastSaved  time.Time `json:"lastSaved"`
}
