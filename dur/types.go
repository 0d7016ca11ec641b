package dur

import (
	"sync"

	"github.com/infinivision/extentdb/mfile"
	"github.com/nnsgmsone/damrey/logger"
)

const (
	EM byte = iota // empty entry
	BU             // begin unit
	CU             // close unit
	WI             // write intent, pre-image of mapped bytes
	CF             // file created
)

const (
	SumSize    = 4
	RecordSize = 4
	HeaderSize = SumSize + RecordSize
)

// File is the mapped file a write intent refers to.
type File interface {
	Path() string
	View() []byte
}

// RecoveryUnit captures mutations of mapped bytes for crash rollback.
// Writing must be called before the returned bytes are changed; the
// pre-image reaches the journal before the caller can touch the mapping.
// Units do not nest and are serialized by the caller.
type RecoveryUnit interface {
	BeginUnit()
	Commit() error
	Rollback()
	Writing(f File, off int64, n int) []byte
	// CreatedFile registers a file creation outside any unit, so a
	// rollback leaves the file in place, empty but valid.
	CreatedFile(path string, length int64) error
}

// Journal is a RecoveryUnit whose records live in an on-disk journal
// file until Close empties it.
type Journal interface {
	RecoveryUnit
	Close() error
}

// LockState reports whether the exclusive write lock of the owning
// logical unit is currently held.
type LockState interface {
	IsWriteLocked() bool
}

// Txn is the transactional context passed into every header-mutating call.
type Txn interface {
	RecoveryUnit() RecoveryUnit
	LockState() LockState
}

type txn struct {
	ru RecoveryUnit
	ls LockState
}

type preimage struct {
	f    File
	off  int64
	data []byte
}

type journal struct {
	sync.Mutex
	size int64
	fp   *mfile.MappedFile
	log  logger.Log
	ws   []preimage
}
