package session

import (
	"strconv"
	"sync"
	"time"
)

// TokenSource yields cache-busting tokens.
type TokenSource func() string

// NewMillisTokenSource returns a TokenSource producing millisecond
// timestamps that strictly increase even when called twice in the same
// millisecond or after the wall clock steps back.
func NewMillisTokenSource(now func() time.Time) TokenSource {
	if now == nil {
		now = time.Now
	}

	var (
		mu   sync.Mutex
		last int64
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		next := now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		last = next
		return strconv.FormatInt(next, 10)
	}
}
