package cache

// MemoryStore is the test double for Store.
type MemoryStore struct {
	sealed []byte
	meta   Metadata
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Put(sealed []byte, meta Metadata) error {
	s.sealed = append([]byte(nil), sealed...)
	meta.Tag = metaTag(sealed)
	s.meta = meta
	return nil
}

func (s *MemoryStore) Get() ([]byte, Metadata, error) {
	if s.sealed == nil {
		return nil, Metadata{}, ErrNoQuickAccess
	}
	return append([]byte(nil), s.sealed...), checkMeta(s.sealed, s.meta), nil
}

func (s *MemoryStore) Clear() error {
	s.sealed = nil
	s.meta = Metadata{}
	return nil
}
