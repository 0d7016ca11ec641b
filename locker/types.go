package locker

import (
	"sync"
)

// Locker is the exclusive write lock of one logical unit. Header
// mutations are only legal while the write side is held; IsWriteLocked
// lets collaborators assert that.
type Locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
	IsWriteLocked() bool
}

// Table hands out one Locker per unit key.
type Table interface {
	Get(uint64) Locker
}

type locker struct {
	w   int32 // write side held
	k   uint64
	lkr sync.RWMutex
}

type table struct {
	mp *sync.Map
}
