package anvil

// Reserved tag keys for engine bookkeeping.
const (
	ownedTag    = "anvil.owned"
	templateTag = "anvil.template"
)

// tagStore remembers per-node values without touching the nodes. Entries
// are created on first write and dropped with forget or by a sweep.
type tagStore struct {
	entries map[Node]map[string]any
}

func newTagStore() *tagStore {
	return &tagStore{entries: make(map[Node]map[string]any)}
}

func (s *tagStore) get(n Node, key string) (any, bool) {
	tags, ok := s.entries[n]
	if !ok {
		return nil, false
	}
	v, ok := tags[key]
	return v, ok
}

func (s *tagStore) set(n Node, key string, value any) {
	tags, ok := s.entries[n]
	if !ok {
		tags = make(map[string]any)
		s.entries[n] = tags
	}
	tags[key] = value
}

func (s *tagStore) forget(n Node) {
	delete(s.entries, n)
}

// forgetTree drops the entries of n and all of its descendants.
func (s *tagStore) forgetTree(n Node) {
	s.forget(n)
	if c, ok := n.(Container); ok {
		for i := range c.ChildCount() {
			s.forgetTree(c.ChildAt(i))
		}
	}
}

// retain drops every entry whose node is not in live and reports how many
// were dropped.
func (s *tagStore) retain(live map[Node]struct{}) int {
	dropped := 0
	for n := range s.entries {
		if _, ok := live[n]; !ok {
			delete(s.entries, n)
			dropped++
		}
	}
	return dropped
}

func (s *tagStore) len() int {
	return len(s.entries)
}
