// Package session ties the in-memory list to its backing file: every
// successful mutation is followed by a synchronous save.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/shoplist"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
)

// Store is the persistence side of a session.
type Store interface {
	Load() ([]model.Line, error)
	Save(lines []model.Line) error
	Quarantine() (string, error)
	Path() string
}

type Session struct {
	list  *shoplist.List
	store Store
	log   *slog.Logger
	dirty bool

	// Recovered holds the quarantine path when a corrupt file was reset on open.
	Recovered string
}

// Open loads the list. With config.OnCorruptReset a corrupt file is moved
// aside and the session starts empty; otherwise the CorruptStateError is returned.
func Open(store Store, onCorrupt string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{store: store, log: logger}

	lines, err := store.Load()
	if err != nil {
		if !errors.Is(err, jsonstore.ErrCorrupt) || onCorrupt != config.OnCorruptReset {
			return nil, fmt.Errorf("load: %w", err)
		}
		logger.Debug("data file is corrupt, starting empty", "path", store.Path(), "error", err)
		dst, qerr := store.Quarantine()
		if qerr != nil {
			return nil, fmt.Errorf("reset corrupt file: %w", qerr)
		}
		s.Recovered = dst
		lines = nil
	}

	l, err := shoplist.FromLines(lines)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s.list = l
	logger.Debug("session opened", "path", store.Path(), "items", l.Len())
	return s, nil
}

func (s *Session) Add(name, quantity, unitPrice string) (model.Line, error) {
	ln, err := s.list.Add(name, quantity, unitPrice)
	if err != nil {
		return model.Line{}, err
	}
	return ln, s.commit("add", "item", ln.Name)
}

func (s *Session) EditQuantity(name, quantity string) (model.Line, error) {
	ln, err := s.list.EditQuantity(name, quantity)
	if err != nil {
		return model.Line{}, err
	}
	return ln, s.commit("edit", "item", ln.Name)
}

func (s *Session) Remove(name string) error {
	if err := s.list.Remove(name); err != nil {
		return err
	}
	return s.commit("remove", "item", name)
}

func (s *Session) Clear() error {
	s.list.Clear()
	return s.commit("clear")
}

// Sync saves the current list; use it to retry after a failed save.
func (s *Session) Sync() error {
	return s.commit("sync")
}

// commit saves after a mutation. On failure the mutation stays in memory and
// the session is dirty until a later save succeeds.
func (s *Session) commit(op string, attrs ...any) error {
	if err := s.store.Save(s.list.Snapshot()); err != nil {
		s.dirty = true
		s.log.Debug("save failed", append([]any{"op", op, "error", err}, attrs...)...)
		return fmt.Errorf("save: %w", err)
	}
	s.dirty = false
	s.log.Debug("saved", append([]any{"op", op, "items", s.list.Len()}, attrs...)...)
	return nil
}

// Dirty reports whether the in-memory list has changes that are not on disk.
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) Snapshot() []model.Line      { return s.list.Snapshot() }
func (s *Session) TotalCost() decimal.Decimal { return s.list.TotalCost() }
func (s *Session) Len() int                   { return s.list.Len() }
func (s *Session) Path() string               { return s.store.Path() }
