package cohort

// Selection tracks which weekly cohort is displayed. Selecting is a pure
// local state change; no remote effect ever hangs off it.
type Selection struct {
	key *string
}

// Reset applies a freshly loaded grouping: the first key (most recent week)
// becomes the selection, or nil when there are no cohorts yet, which
// consumers render as an empty affordance rather than an error.
func (s *Selection) Reset(keys []string) {
	if len(keys) == 0 {
		s.key = nil
		return
	}
	k := keys[0]
	s.key = &k
}

// Select switches the displayed cohort.
func (s *Selection) Select(key string) {
	k := key
	s.key = &k
}

// Key returns the selected cohort key, if any.
func (s *Selection) Key() (string, bool) {
	if s.key == nil {
		return "", false
	}
	return *s.key, true
}
