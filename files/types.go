package files

import (
	"io"
	"sync"

	"github.com/gofrs/flock"
	"github.com/infinivision/extentdb/datafile"
	"github.com/infinivision/extentdb/dur"
	"github.com/infinivision/extentdb/locator"
	"github.com/infinivision/extentdb/locker"
	"github.com/infinivision/extentdb/prealloc"
	"github.com/infinivision/extentdb/sizing"
	"github.com/nnsgmsone/damrey/logger"
)

type Config struct {
	DirName    string
	SmallFiles bool
	Prealloc   bool
	MaxMapSize int64 // maximum addressable mapping size, 0 = unconstrained
	LogWriter  io.Writer
}

/*
Manager owns the set of numbered data files of one directory. Manager is
thread-safe; the mapped files and the journal below it are not, so every
mutation runs under the manager mutex and the owning file's write lock.
*/
type Manager interface {
	Close() error
	Flush(sync bool) error

	Files() int
	Alloc(size int32) (locator.Loc, error)
	At(lc locator.Loc, n int32) ([]byte, error)
}

type manager struct {
	sync.Mutex
	down int32
	cfg  Config
	pol  sizing.Policy
	log  logger.Log
	flk  *flock.Flock
	jnl  dur.Journal
	tbl  locker.Table
	schd prealloc.Scheduler
	fs   []*datafile.DataFile
}
