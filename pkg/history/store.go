package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/interviewrally/pkg/apperr"
	"github.com/artem13815/interviewrally/pkg/kv"
)

// Store хранит коллекцию интервью под одним ключом.
// Любой сбой логируется и превращается в nil, false или пустой список.
type Store struct {
	kv    kv.Store
	key   string
	mu    *sync.Mutex
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithIDGenerator(f func() string) Option { return func(s *Store) { s.newID = f } }

func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    store,
		key:   StorageKey,
		mu:    &sync.Mutex{},
		log:   slog.Default(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ForClient возвращает представление хранилища для коллекции одного клиента.
// Все представления делят одну блокировку записи.
func (s *Store) ForClient(clientID string) *Store {
	cp := *s
	if clientID != "" {
		cp.key = StorageKey + ":" + clientID
	}
	return &cp
}

func (s *Store) Save(ctx context.Context, d Draft) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.fail("save", err)
		return nil
	}
	rec := Record{
		ID:             s.newID(),
		Title:          d.Title,
		JobDescription: d.JobDescription,
		Questions:      d.Questions,
		CreatedAt:      s.now(),
		Score:          d.Score,
	}
	records = append(records, rec)
	if err := s.store(ctx, records); err != nil {
		s.fail("save", err)
		return nil
	}
	return &rec
}

func (s *Store) List(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.fail("list", err)
		return []Record{}
	}
	return records
}

func (s *Store) Get(ctx context.Context, id string) (Record, bool) {
	for _, r := range s.List(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func (s *Store) Update(ctx context.Context, id string, p Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.fail("update", err)
		return false
	}
	idx := slices.IndexFunc(records, func(r Record) bool { return r.ID == id })
	if idx < 0 {
		return false
	}
	rec := &records[idx]
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.JobDescription != nil {
		rec.JobDescription = *p.JobDescription
	}
	if p.Questions != nil {
		rec.Questions = *p.Questions
	}
	if p.Score != nil {
		score := *p.Score
		rec.Score = &score
	}
	if err := s.store(ctx, records); err != nil {
		s.fail("update", err)
		return false
	}
	return true
}

func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.fail("delete", err)
		return false
	}
	filtered := slices.DeleteFunc(slices.Clone(records), func(r Record) bool { return r.ID == id })
	if len(filtered) == len(records) {
		return false
	}
	if err := s.store(ctx, filtered); err != nil {
		s.fail("delete", err)
		return false
	}
	return true
}

// load считает отсутствующий или битый документ пустой коллекцией.
func (s *Store) load(ctx context.Context) ([]Record, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.log.Warn("history: malformed collection, treating as empty", "key", s.key, "error", err)
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *Store) store(ctx context.Context, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(data))
}

func (s *Store) fail(op string, err error) {
	s.log.Error("history storage failure", "key", s.key, "error", apperr.Storage(op, err))
}
