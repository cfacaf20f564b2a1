package service

import (
	"strconv"
	"sync"
	"time"
)

// IDProvider issues record identifiers
type IDProvider interface {
	NewID() string
}

// TimestampIDProvider issues decimal Unix-second strings. IDs are
// opaque to every consumer; the timestamp origin only makes them sort
// in creation order. Two calls in the same second bump forward so IDs
// stay unique and strictly increasing within a process.
type TimestampIDProvider struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestampIDProvider creates the production ID provider
func NewTimestampIDProvider() *TimestampIDProvider {
	return &TimestampIDProvider{now: time.Now}
}

// NewID returns the next identifier
func (p *TimestampIDProvider) NewID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	sec := p.now().Unix()
	if sec <= p.last {
		sec = p.last + 1
	}
	p.last = sec
	return strconv.FormatInt(sec, 10)
}
