package locker

import (
	"sync"
	"sync/atomic"
)

func New() *table {
	return &table{mp: new(sync.Map)}
}

func (t *table) Get(k uint64) Locker {
	if v, ok := t.mp.Load(k); ok {
		return v.(*locker)
	}
	v, _ := t.mp.LoadOrStore(k, &locker{k: k})
	return v.(*locker)
}

func (l *locker) Lock() {
	l.lkr.Lock()
	atomic.StoreInt32(&l.w, 1)
}

func (l *locker) Unlock() {
	atomic.StoreInt32(&l.w, 0)
	l.lkr.Unlock()
}

func (l *locker) RLock() {
	l.lkr.RLock()
}

func (l *locker) RUnlock() {
	l.lkr.RUnlock()
}

func (l *locker) IsWriteLocked() bool {
	return atomic.LoadInt32(&l.w) == 1
}
