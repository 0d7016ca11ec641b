package locker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	tbl := New()
	assert.Equal(t, tbl.Get(3), tbl.Get(3))
	assert.NotEqual(t, tbl.Get(3), tbl.Get(4))
}

func TestIsWriteLocked(t *testing.T) {
	l := New().Get(0)
	assert.False(t, l.IsWriteLocked())
	l.Lock()
	assert.True(t, l.IsWriteLocked())
	l.Unlock()
	assert.False(t, l.IsWriteLocked())

	l.RLock()
	assert.False(t, l.IsWriteLocked())
	l.RUnlock()
}
