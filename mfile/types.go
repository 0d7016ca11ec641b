package mfile

// MappedFile is one memory-mapped file. The mapping is shared, so writes
// to View reach the page cache directly; Flush forces them to disk.
type MappedFile struct {
	path string
	size int64
	buf  []byte
}
