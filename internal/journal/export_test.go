package journal

import "time"

// SetClock replaces the timestamp source
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
