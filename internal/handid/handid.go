// Package handid generates the table-scoped hand identifiers that clients
// use to correlate actions with the live hand (H-YYYYMMDD-NNNNN).
package handid

import (
	"fmt"
	"regexp"
	"time"
)

var pattern = regexp.MustCompile(`^H-\d{8}-\d{5}$`)

// Sequence hands out monotonically increasing hand identifiers for one
// table. The counter never resets, not even across midnight.
type Sequence struct {
	next int
	now  func() time.Time
}

// NewSequence creates a sequence starting at counter zero. now may be nil, in
// which case time.Now is used; tests inject a fixed clock.
func NewSequence(now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	return &Sequence{now: now}
}

// Next returns the next hand identifier.
func (s *Sequence) Next() string {
	id := Format(s.now(), s.next)
	s.next++
	return id
}

// Format renders a hand identifier for the given date and counter.
func Format(t time.Time, counter int) string {
	return fmt.Sprintf("H-%s-%05d", t.UTC().Format("20060102"), counter)
}

// Validate checks that id has the H-YYYYMMDD-NNNNN shape.
func Validate(id string) error {
	if !pattern.MatchString(id) {
		return fmt.Errorf("malformed hand id %q", id)
	}
	return nil
}
