package team

// Store exposes team member lookups for the router and the bio generator.
type Store interface {
	List() []Member
	FindByKey(key string) (Member, bool)
}

// MemoryStore implements Store with an in-memory slice. The records never change
// after construction, so no locking is needed.
type MemoryStore struct {
	items []Member
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied members.
func NewMemoryStore(items []Member) *MemoryStore {
	return &MemoryStore{items: append([]Member(nil), items...)}
}

// List returns the members in priority order.
func (s *MemoryStore) List() []Member {
	return append([]Member(nil), s.items...)
}

// FindByKey looks up a member by key.
func (s *MemoryStore) FindByKey(key string) (Member, bool) {
	for _, item := range s.items {
		if item.Key == key {
			return item, true
		}
	}
	return Member{}, false
}
