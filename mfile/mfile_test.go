package mfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.DAT")
	m, err := Create(path, 65536)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, path, m.Path())
	assert.Equal(t, int64(65536), m.Length())
	assert.Len(t, m.View(), 65536)

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(65536), st.Size())
}

func TestWriteThroughMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.DAT")
	m, err := Create(path, 65536)
	require.NoError(t, err)

	copy(m.View()[100:], "extent")
	require.NoError(t, m.Flush(true))
	require.NoError(t, m.Close())

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "extent", string(buf[100:106]))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.DAT")
	m, err := Create(path, 65536)
	require.NoError(t, err)
	copy(m.View(), "head")
	require.NoError(t, m.Flush(true))
	require.NoError(t, m.Close())

	r, err := Open(path, true)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, int64(65536), r.Length())
	assert.Equal(t, "head", string(r.View()[:4]))

	_, err = Open(filepath.Join(t.TempDir(), "missing.DAT"), false)
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.DAT")
	m, err := Create(path, 4096)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}
