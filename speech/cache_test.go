package speech

import "testing"

func TestCacheExactKeys(t *testing.T) {
	c := NewCache()
	c.Put("Mitosis", Payload("aaaa"))

	// Keys are exact strings: whitespace and case differences are
	// distinct entries.
	if _, ok := c.Get("mitosis"); ok {
		t.Error("Get() with different case should miss")
	}
	if _, ok := c.Get("Mitosis "); ok {
		t.Error("Get() with trailing space should miss")
	}

	p, ok := c.Get("Mitosis")
	if !ok || p != Payload("aaaa") {
		t.Errorf("Get() = %q, %v; want %q, true", p, ok, "aaaa")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Put("a", Payload("1"))
	c.Put("b", Payload("2"))

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Get() after Clear should miss")
	}
}

type fakeStore struct {
	data map[string][]byte
	puts int
}

func (s *fakeStore) Get(key string) ([]byte, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) Put(key string, value []byte) error {
	s.puts++
	s.data[key] = value
	return nil
}

func TestCacheStoreLayer(t *testing.T) {
	store := &fakeStore{data: map[string][]byte{"persisted": []byte("zzzz")}}
	c := NewCacheWithStore(store)

	// Miss in memory, hit in store, promoted to memory.
	p, ok := c.Get("persisted")
	if !ok || p != Payload("zzzz") {
		t.Fatalf("Get() = %q, %v; want promoted store entry", p, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after promotion", c.Len())
	}

	// Put writes through.
	c.Put("fresh", Payload("yyyy"))
	if store.puts != 1 {
		t.Errorf("store puts = %d, want 1", store.puts)
	}

	stats := c.Stats()
	if stats.StoreHits != 1 {
		t.Errorf("StoreHits = %d, want 1", stats.StoreHits)
	}
}
