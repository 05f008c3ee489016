package session

import "sync/atomic"

// RevisionClock stamps session state changes.
type RevisionClock interface {
	Next() int64
	Current() int64
}

// Clock hands out session revisions. A fresh clock reads 0 and its first
// Next returns 1, so a session's initial artifacts are revision 1.
//
// Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock at revision 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new revision.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last revision handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
