package observation

// Store is an append-only, ordered collection of observations for one
// family. Row order is significant: lookups are first-observed-wins.
type Store struct {
	family Family
	rows   []Observation
}

func NewStore(family Family, rows ...Observation) *Store {
	s := &Store{family: family}
	s.Append(rows...)
	return s
}

func (s *Store) Family() Family {
	return s.family
}

// Append adds rows at the end of the store.
func (s *Store) Append(rows ...Observation) {
	s.rows = append(s.rows, rows...)
}

// Rows returns a copy of all rows in table order.
func (s *Store) Rows() []Observation {
	return append([]Observation(nil), s.rows...)
}

func (s *Store) Len() int {
	return len(s.rows)
}

// Lookup returns the first row for subject and metric. Later duplicates are
// ignored.
func (s *Store) Lookup(subject Subject, metric string) (Observation, bool) {
	for _, row := range s.rows {
		if row.Metric == metric && row.Subject() == subject {
			return row, true
		}
	}
	return Observation{}, false
}

// Value is Lookup reduced to its value; a missing row is absent.
func (s *Store) Value(subject Subject, metric string) Value {
	row, ok := s.Lookup(subject, metric)
	if !ok {
		return Absent()
	}
	return row.Value
}

// HasDerived reports whether any derived row is present.
func (s *Store) HasDerived() bool {
	for _, row := range s.rows {
		if IsDerived(row.Metric) {
			return true
		}
	}
	return false
}

// Count returns the number of rows carrying metric.
func (s *Store) Count(metric string) int {
	n := 0
	for _, row := range s.rows {
		if row.Metric == metric {
			n++
		}
	}
	return n
}
