package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// HistoryCap bounds the action log; the oldest entries are dropped silently.
const HistoryCap = 200

// Records is the in-memory image of the application state. Account, tasks,
// history, theme and order mirror the store's five records; Session is
// memory-only and never persisted.
type Records struct {
	Account *entities.Account
	Session *entities.Session
	Tasks   []entities.Task
	History []string
	Theme   entities.Theme
	Order   entities.SortOrder
}

// PushHistory prepends entry to the log and truncates it to HistoryCap.
func (r *Records) PushHistory(entry string) {
	h := make([]string, 0, len(r.History)+1)
	h = append(h, entry)
	h = append(h, r.History...)
	if len(h) > HistoryCap {
		h = h[:HistoryCap]
	}
	r.History = h
}

func (r Records) clone() Records {
	out := r
	if r.Account != nil {
		a := *r.Account
		out.Account = &a
	}
	if r.Session != nil {
		sess := *r.Session
		out.Session = &sess
	}
	out.Tasks = make([]entities.Task, len(r.Tasks))
	copy(out.Tasks, r.Tasks)
	out.History = make([]string, len(r.History))
	copy(out.History, r.History)
	return out
}

// State owns the application records, loading them from the store at
// startup and writing through on every mutation. The original application is
// single-threaded by construction; an HTTP process is not, so all access
// goes through one lock.
type State struct {
	store ports.StateStore

	mu      sync.Mutex
	records Records

	idMu   sync.Mutex
	lastID int64
}

// Load reads the persisted records, substituting type-specific defaults for
// anything absent: no account, empty tasks and history, light theme, newest
// ordering.
func Load(ctx context.Context, store ports.StateStore) (*State, error) {
	s := &State{
		store: store,
		records: Records{
			Tasks:   []entities.Task{},
			History: []string{},
			Theme:   entities.ThemeLight,
			Order:   entities.OrderNewest,
		},
	}

	var account entities.Account
	ok, err := readRecord(ctx, store, ports.KeyAccount, &account)
	if err != nil {
		return nil, err
	}
	if ok {
		s.records.Account = &account
	}

	if _, err := readRecord(ctx, store, ports.KeyTasks, &s.records.Tasks); err != nil {
		return nil, err
	}
	if _, err := readRecord(ctx, store, ports.KeyHistory, &s.records.History); err != nil {
		return nil, err
	}
	if _, err := readRecord(ctx, store, ports.KeyTheme, &s.records.Theme); err != nil {
		return nil, err
	}
	if _, err := readRecord(ctx, store, ports.KeyOrder, &s.records.Order); err != nil {
		return nil, err
	}

	if s.records.Tasks == nil {
		s.records.Tasks = []entities.Task{}
	}
	if s.records.History == nil {
		s.records.History = []string{}
	}

	s.lastID = maxTaskID(s.records.Tasks)

	return s, nil
}

func readRecord(ctx context.Context, store ports.StateStore, key string, dst any) (bool, error) {
	raw, ok, err := store.Read(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load record %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode record %q: %w", key, err)
	}
	return true, nil
}

// Snapshot returns an independent copy of the current records.
func (s *State) Snapshot() Records {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.clone()
}

// Mutate runs fn against a working copy of the records under the state
// lock. fn returns the record keys it changed; those are persisted before
// the copy replaces the live records, so a failed write leaves the
// in-memory state untouched. Session changes need no key, it is never
// persisted.
func (s *State) Mutate(ctx context.Context, fn func(r *Records) ([]string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.records.clone()
	keys, err := fn(&work)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := s.persist(ctx, key, &work); err != nil {
			return err
		}
	}

	s.records = work
	s.reseedIDs(work.Tasks)

	return nil
}

func (s *State) persist(ctx context.Context, key string, r *Records) error {
	var value any
	switch key {
	case ports.KeyAccount:
		value = r.Account
	case ports.KeyTasks:
		value = r.Tasks
	case ports.KeyHistory:
		value = r.History
	case ports.KeyTheme:
		value = r.Theme
	case ports.KeyOrder:
		value = r.Order
	default:
		return fmt.Errorf("unknown record key %q", key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", key, err)
	}

	if err := s.store.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("persist record %q: %w", key, err)
	}

	return nil
}

// NextID returns a unix-millisecond task id that stays strictly increasing
// even for rapid successive creations within the same millisecond.
func (s *State) NextID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	now := time.Now().UnixMilli()
	if now > s.lastID {
		s.lastID = now
	} else {
		s.lastID++
	}
	return s.lastID
}

// reseedIDs keeps the generator ahead of any id already in the collection,
// covering tasks brought in by a backup import. Callers hold s.mu.
func (s *State) reseedIDs(tasks []entities.Task) {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	if max := maxTaskID(tasks); max > s.lastID {
		s.lastID = max
	}
}

func maxTaskID(tasks []entities.Task) int64 {
	var max int64
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}
