package datafile

import (
	"encoding/binary"
	"io"
	"path/filepath"
	"testing"

	"github.com/infinivision/extentdb/constant"
	"github.com/infinivision/extentdb/dur"
	"github.com/infinivision/extentdb/errmsg"
	"github.com/infinivision/extentdb/locator"
	"github.com/infinivision/extentdb/locker"
	"github.com/infinivision/extentdb/mfile"
	"github.com/nnsgmsone/damrey/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() logger.Log {
	return logger.New(io.Discard, "test")
}

func testTxn(t *testing.T, dir string) (dur.Txn, locker.Locker) {
	jnl, err := dur.NewJournal(dir, testLog())
	require.NoError(t, err)
	l := locker.New().Get(0)
	return dur.NewTxn(jnl, l), l
}

func testHeader(t *testing.T, dir string, size int64) (*Header, string) {
	path := filepath.Join(dir, "0.DAT")
	f, err := mfile.Create(path, size)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return newHeader(f), path
}

func TestLayout(t *testing.T) {
	assert.Equal(t, constant.HeaderSize, oReserved+reservedSize)
	assert.Equal(t, 0, oVersion)
	assert.Equal(t, 4, oVersionMinor)
	assert.Equal(t, 8, oFileLength)
	assert.Equal(t, 12, oUnused)
	assert.Equal(t, 20, oUnusedLength)
	assert.Equal(t, 24, oFreeListStart)
	assert.Equal(t, 32, oFreeListEnd)
}

func TestInitRoundTrip(t *testing.T) {
	dir := t.TempDir()
	txn, l := testTxn(t, dir)
	h, path := testHeader(t, dir, 1<<20)

	assert.True(t, h.Uninitialized())
	l.Lock()
	require.NoError(t, h.Init(txn, 0, 1<<20, path, testLog()))
	l.Unlock()

	assert.False(t, h.Uninitialized())
	assert.Equal(t, int32(CurrentVersion), h.Version())
	assert.Equal(t, int32(CurrentVersionMinor), h.VersionMinor())
	assert.Equal(t, int32(1<<20), h.FileLength())
	assert.Equal(t, locator.New(0, constant.HeaderSize), h.Unused())
	assert.Equal(t, int32(1<<20-constant.HeaderSize-constant.SafetyMargin), h.UnusedLength())
	assert.True(t, h.FreeListStart().IsNull())
	assert.True(t, h.FreeListEnd().IsNull())
}

func TestInitIdempotent(t *testing.T) {
	dir := t.TempDir()
	txn, l := testTxn(t, dir)
	h, path := testHeader(t, dir, 1<<20)

	l.Lock()
	defer l.Unlock()
	require.NoError(t, h.Init(txn, 0, 1<<20, path, testLog()))

	unused := h.Unused()
	version := h.Version()
	require.NoError(t, h.Init(txn, 0, 1<<20, path, testLog()))
	assert.Equal(t, unused, h.Unused())
	assert.Equal(t, version, h.Version())
}

func TestInitTooSmall(t *testing.T) {
	dir := t.TempDir()
	txn, l := testTxn(t, dir)
	h, path := testHeader(t, dir, constant.MinHeaderLength)

	l.Lock()
	defer l.Unlock()
	err := h.Init(txn, 0, constant.MinHeaderLength, path, testLog())
	assert.ErrorIs(t, err, errmsg.Corrupt)
	assert.True(t, h.Uninitialized())
}

func TestInitWithoutWriteLock(t *testing.T) {
	dir := t.TempDir()
	txn, l := testTxn(t, dir)
	h, path := testHeader(t, dir, 1<<20)

	// not holding the write lock defers the stamp instead of corrupting
	require.NoError(t, h.Init(txn, 0, 1<<20, path, testLog()))
	assert.True(t, h.Uninitialized())

	// the retry under the lock succeeds
	l.Lock()
	defer l.Unlock()
	require.NoError(t, h.Init(txn, 0, 1<<20, path, testLog()))
	assert.False(t, h.Uninitialized())
}

func TestCheckUpgrade(t *testing.T) {
	dir := t.TempDir()
	txn, l := testTxn(t, dir)
	h, path := testHeader(t, dir, 1<<20)

	l.Lock()
	defer l.Unlock()
	require.NoError(t, h.Init(txn, 0, 1<<20, path, testLog()))

	// rewrite the anchors to the legacy all-zero empty list
	for _, off := range []int{oFreeListStart, oFreeListEnd} {
		binary.LittleEndian.PutUint64(h.buf[off:], 0)
	}
	assert.Equal(t, locator.Loc{}, h.FreeListStart())

	require.NoError(t, h.CheckUpgrade(txn))
	assert.True(t, h.FreeListStart().IsNull())
	assert.True(t, h.FreeListEnd().IsNull())

	// second run is a no-op
	require.NoError(t, h.CheckUpgrade(txn))
	assert.True(t, h.FreeListStart().IsNull())
}

func TestCheckUpgradeMismatch(t *testing.T) {
	dir := t.TempDir()
	txn, l := testTxn(t, dir)
	h, path := testHeader(t, dir, 1<<20)

	l.Lock()
	defer l.Unlock()
	require.NoError(t, h.Init(txn, 0, 1<<20, path, testLog()))

	binary.LittleEndian.PutUint64(h.buf[oFreeListStart:], 0)
	assert.ErrorIs(t, h.CheckUpgrade(txn), errmsg.Corrupt)
}
