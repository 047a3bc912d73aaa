package scenario

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// DefaultKey is the storage key holding the scenario list.
const DefaultKey = "wellwise_scenarios"

// savedAtLayout is RFC 3339 in UTC with millisecond precision.
const savedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrNotFound is returned when no scenario has the requested ID.
var ErrNotFound = eris.New("scenario: not found")

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the time source used for IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the scenario list over a KV backend. Records are kept as raw
// JSON so fields written by other versions survive a rewrite untouched.
type Store struct {
	kv  KV
	key string
	now func() time.Time

	mu sync.Mutex
}

func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, key: DefaultKey, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every saved scenario in save order. Backend or decoding
// failures are logged and yield an empty list.
func (s *Store) List(ctx context.Context) []Scenario {
	s.mu.Lock()
	records := s.read(ctx)
	s.mu.Unlock()

	out := make([]Scenario, 0, len(records))
	for i, raw := range records {
		var sc Scenario
		if err := json.Unmarshal(raw, &sc); err != nil {
			zap.L().Warn("scenario: skipping unreadable record", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, sc)
	}
	return out
}

// Get returns the scenario with id.
func (s *Store) Get(ctx context.Context, id int64) (Scenario, error) {
	for _, sc := range s.List(ctx) {
		if sc.ID == id {
			return sc, nil
		}
	}
	return Scenario{}, ErrNotFound
}

// Save appends sc with a fresh ID and timestamp and returns the stored
// record. IDs are the current Unix millisecond, bumped past the largest
// existing ID when saves collide.
func (s *Store) Save(ctx context.Context, sc Scenario) (Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return Scenario{}, eris.Wrap(err, "scenario: save")
	}

	now := s.now().UTC()
	id := now.UnixMilli()
	for _, raw := range records {
		if existing, ok := recordID(raw); ok && existing >= id {
			id = existing + 1
		}
	}
	sc.ID = id
	sc.SavedAt = now.Format(savedAtLayout)

	raw, err := json.Marshal(sc)
	if err != nil {
		return Scenario{}, eris.Wrap(err, "scenario: encode")
	}
	if err := s.write(ctx, append(records, raw)); err != nil {
		return Scenario{}, eris.Wrap(err, "scenario: save")
	}
	return sc, nil
}

// Update applies patch to the scenario with id. Fields the patch does not
// name, including unknown ones, are kept as stored.
func (s *Store) Update(ctx context.Context, id int64, patch Patch) (Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return Scenario{}, eris.Wrap(err, "scenario: update")
	}
	for i, raw := range records {
		if existing, ok := recordID(raw); !ok || existing != id {
			continue
		}

		updated := []byte(raw)
		if patch.Name != nil {
			if updated, err = sjson.SetBytes(updated, "name", *patch.Name); err != nil {
				return Scenario{}, eris.Wrap(err, "scenario: patch name")
			}
		}
		if patch.Notes != nil {
			if updated, err = sjson.SetBytes(updated, "notes", *patch.Notes); err != nil {
				return Scenario{}, eris.Wrap(err, "scenario: patch notes")
			}
		}

		var sc Scenario
		if err := json.Unmarshal(updated, &sc); err != nil {
			return Scenario{}, eris.Wrap(err, "scenario: decode record")
		}

		records[i] = updated
		if err := s.write(ctx, records); err != nil {
			return Scenario{}, eris.Wrap(err, "scenario: update")
		}
		return sc, nil
	}
	return Scenario{}, ErrNotFound
}

// Delete removes the scenario with id. Unknown IDs are a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return eris.Wrap(err, "scenario: delete")
	}
	kept := records[:0]
	for _, raw := range records {
		if existing, ok := recordID(raw); ok && existing == id {
			continue
		}
		kept = append(kept, raw)
	}
	if len(kept) == len(records) {
		return nil
	}
	if err := s.write(ctx, kept); err != nil {
		return eris.Wrap(err, "scenario: delete")
	}
	return nil
}

// Clear removes the whole list.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return eris.Wrap(err, "scenario: clear")
	}
	return nil
}

// read is load for the read-only paths: failures are logged and yield an
// empty list.
func (s *Store) read(ctx context.Context) []json.RawMessage {
	records, err := s.load(ctx)
	if err != nil {
		zap.L().Error("scenario: read list", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	return records
}

// load returns the stored records. Mutations use it directly so a failed
// read never overwrites the list.
func (s *Store) load(ctx context.Context) ([]json.RawMessage, error) {
	value, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, eris.Wrap(err, "read list")
	}
	if !ok || value == "" {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, eris.Wrap(err, "decode list")
	}
	return records, nil
}

func (s *Store) write(ctx context.Context, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return eris.Wrap(err, "encode list")
	}
	return s.kv.Set(ctx, s.key, string(raw))
}

func recordID(raw json.RawMessage) (int64, bool) {
	id := gjson.GetBytes(raw, "id")
	if id.Type != gjson.Number {
		return 0, false
	}
	return int64(id.Float()), true
}
