// Package accounting provides the optional heap-accounting capability
// described in §5: a process-wide, mutex-guarded record of outstanding
// allocations, used so the read-query core can fail with OutOfMemory rather
// than letting a caller-supplied buffer or estimate grow unbounded.
package accounting

import (
	"sync"

	"github.com/marcobambini/TileDB/arrerr"
)

// Tracker records (token, size, label) on Alloc and forgets it on Release.
// All access is guarded by a single mutex, matching §5's "process-wide
// accounting struct behind a lock" design note. A zero-value Tracker has no
// ceiling and never fails.
type Tracker struct {
	mu      sync.Mutex
	ceiling uint64
	inUse   uint64
	byToken map[interface{}]entry
}

type entry struct {
	size  uint64
	label string
}

// NewTracker returns a Tracker that fails allocations once ceiling bytes are
// outstanding. A ceiling of zero means unlimited.
func NewTracker(ceiling uint64) *Tracker {
	return &Tracker{ceiling: ceiling, byToken: make(map[interface{}]entry)}
}

// Alloc records size bytes of usage under token, labeled label. It fails
// with OutOfMemory (never by terminating the process) if the ceiling would
// be exceeded.
func (t *Tracker) Alloc(token interface{}, size uint64, label string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ceiling > 0 && t.inUse+size > t.ceiling {
		return arrerr.Newf(arrerr.OutOfMemory,
			"allocating %d bytes for %q would exceed ceiling of %d (currently %d in use)",
			size, label, t.ceiling, t.inUse)
	}
	if t.byToken == nil {
		t.byToken = make(map[interface{}]entry)
	}
	t.byToken[token] = entry{size: size, label: label}
	t.inUse += size
	return nil
}

// Release forgets the allocation recorded under token, if any.
func (t *Tracker) Release(token interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.byToken[token]; ok {
		t.inUse -= e.size
		delete(t.byToken, token)
	}
}

// InUse reports the number of bytes currently tracked as in use.
func (t *Tracker) InUse() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inUse
}
