package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

type memoryStore struct {
	path     string
	inMemory bool

	mu     sync.RWMutex
	seq    int64
	sites  map[string]map[string]*memoryTable
	closed bool
}

type memoryTable struct {
	Indexes []string                `json:"indexes"`
	Records map[string]memoryRecord `json:"records"`
}

type memoryRecord struct {
	Seq     int64             `json:"seq"`
	Indexes map[string]string `json:"indexes,omitempty"`
	Data    []byte            `json:"data"`
}

type memoryPersistedState struct {
	Seq   int64                              `json:"seq"`
	Sites map[string]map[string]*memoryTable `json:"sites"`
}

// NewMemoryStore returns a map-backed LocalStore. When path is a file path the
// whole state is loaded from it on start and written back after each change;
// "" or ":memory:" keeps everything in memory.
func NewMemoryStore(path string) (LocalStore, error) {
	if path == "" {
		path = ":memory:"
	}

	s := &memoryStore{
		path:     path,
		inMemory: path == ":memory:" || path == "memory",
		sites:    make(map[string]map[string]*memoryTable),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *memoryStore) CreateTable(_ context.Context, siteID string, schema TableSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tables, ok := s.sites[siteID]
	if !ok {
		tables = make(map[string]*memoryTable)
		s.sites[siteID] = tables
	}

	t, ok := tables[schema.Name]
	if !ok {
		tables[schema.Name] = &memoryTable{
			Indexes: slices.Clone(schema.Indexes),
			Records: make(map[string]memoryRecord),
		}
		return s.persist()
	}

	for _, idx := range schema.Indexes {
		if !slices.Contains(t.Indexes, idx) {
			t.Indexes = append(t.Indexes, idx)
		}
	}
	return s.persist()
}

func (s *memoryStore) Get(_ context.Context, siteID, table string, key Key) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(siteID, table)
	if err != nil {
		return Record{}, err
	}

	rec, ok := t.Records[string(key)]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec.toRecord(key), nil
}

func (s *memoryStore) Insert(_ context.Context, siteID, table string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(siteID, table)
	if err != nil {
		return err
	}

	for _, idx := range t.Indexes {
		if _, ok := rec.Indexes[idx]; !ok {
			return fmt.Errorf("%w: %s.%s", ErrMissingIndexValue, table, idx)
		}
	}

	seq := s.seq + 1
	if existing, ok := t.Records[string(rec.Key)]; ok {
		seq = existing.Seq
	} else {
		s.seq = seq
	}

	t.Records[string(rec.Key)] = memoryRecord{
		Seq:     seq,
		Indexes: cloneIndexes(rec.Indexes),
		Data:    slices.Clone(rec.Data),
	}
	return s.persist()
}

func (s *memoryStore) Remove(_ context.Context, siteID, table string, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(siteID, table)
	if err != nil {
		return err
	}

	if _, ok := t.Records[string(key)]; !ok {
		return nil
	}
	delete(t.Records, string(key))
	return s.persist()
}

func (s *memoryStore) RemoveWhere(_ context.Context, siteID, table, index, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(siteID, table)
	if err != nil {
		return err
	}
	if !slices.Contains(t.Indexes, index) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownIndex, table, index)
	}

	for key, rec := range t.Records {
		if rec.Indexes[index] == value {
			delete(t.Records, key)
		}
	}
	return s.persist()
}

func (s *memoryStore) Query(_ context.Context, siteID, table, index, value string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(siteID, table)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(t.Indexes, index) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownIndex, table, index)
	}

	return t.sorted(func(rec memoryRecord) bool {
		return rec.Indexes[index] == value
	}), nil
}

func (s *memoryStore) All(_ context.Context, siteID, table string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(siteID, table)
	if err != nil {
		return nil, err
	}
	return t.sorted(nil), nil
}

func (s *memoryStore) DeleteSite(_ context.Context, siteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	delete(s.sites, siteID)
	return s.persist()
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// table must be called with s.mu held.
func (s *memoryStore) table(siteID, table string) (*memoryTable, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	t, ok := s.sites[siteID][table]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrStoreNotInitialized, siteID, table)
	}
	return t, nil
}

func (t *memoryTable) sorted(match func(memoryRecord) bool) []Record {
	type keyed struct {
		key string
		rec memoryRecord
	}

	matched := make([]keyed, 0, len(t.Records))
	for key, rec := range t.Records {
		if match == nil || match(rec) {
			matched = append(matched, keyed{key: key, rec: rec})
		}
	}
	slices.SortFunc(matched, func(a, b keyed) int {
		return int(a.rec.Seq - b.rec.Seq)
	})

	out := make([]Record, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.rec.toRecord(Key(m.key)))
	}
	return out
}

func (r memoryRecord) toRecord(key Key) Record {
	return Record{Key: key, Indexes: cloneIndexes(r.Indexes), Data: slices.Clone(r.Data)}
}

func cloneIndexes(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memoryStore) load() error {
	if s.inMemory {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read local store file: %w", err)
	}

	var st memoryPersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode local store file: %w", err)
	}

	if st.Sites == nil {
		st.Sites = make(map[string]map[string]*memoryTable)
	}
	for _, tables := range st.Sites {
		for _, t := range tables {
			if t.Records == nil {
				t.Records = make(map[string]memoryRecord)
			}
		}
	}

	s.seq = st.Seq
	s.sites = st.Sites
	return nil
}

// persist must be called with s.mu held for writing.
func (s *memoryStore) persist() error {
	if s.inMemory {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local store dir: %w", err)
		}
	}

	payload, err := json.Marshal(memoryPersistedState{Seq: s.seq, Sites: s.sites})
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}

	if err = os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write local store file: %w", err)
	}
	return nil
}
