package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/infinivision/extentdb/constant"
	"github.com/infinivision/extentdb/datafile"
	"github.com/infinivision/extentdb/dur"
	"github.com/infinivision/extentdb/errmsg"
	"github.com/infinivision/extentdb/locator"
	"github.com/infinivision/extentdb/locker"
	"github.com/infinivision/extentdb/prealloc"
	"github.com/infinivision/extentdb/sizing"
	"github.com/nnsgmsone/damrey/logger"
)

const lockName = "LOCK"

func DefaultConfig() Config {
	return Config{
		DirName:   "extent.db",
		LogWriter: os.Stderr,
	}
}

func Open(cfg Config) (*manager, error) {
	if cfg.LogWriter == nil {
		cfg.LogWriter = os.Stderr
	}
	if err := checkDir(cfg.DirName); err != nil {
		return nil, err
	}
	flk := flock.New(filepath.Join(cfg.DirName, lockName))
	hold, err := flk.TryLock()
	if err != nil {
		return nil, err
	}
	if !hold {
		return nil, errmsg.DirLocked
	}
	log := logger.New(cfg.LogWriter, "extentdb")
	if err := dur.Recover(cfg.DirName); err != nil {
		flk.Unlock()
		return nil, err
	}
	jnl, err := dur.NewJournal(cfg.DirName, log)
	if err != nil {
		flk.Unlock()
		return nil, err
	}
	m := &manager{
		cfg: cfg,
		log: log,
		flk: flk,
		jnl: jnl,
		tbl: locker.New(),
		pol: sizing.Policy{SmallFiles: cfg.SmallFiles, MaxMapSize: cfg.MaxMapSize},
	}
	m.schd = prealloc.New(log)
	go m.schd.Run()
	if err := m.openExisting(); err != nil {
		m.schd.Stop()
		jnl.Close()
		flk.Unlock()
		return nil, err
	}
	return m, nil
}

func (m *manager) Close() error {
	if !atomic.CompareAndSwapInt32(&m.down, 0, 1) {
		return nil
	}
	m.schd.Stop()
	m.Lock()
	defer m.Unlock()
	for _, df := range m.fs {
		df.Flush(true)
		df.Close()
	}
	if err := m.jnl.Close(); err != nil {
		m.flk.Unlock()
		return err
	}
	return m.flk.Unlock()
}

func (m *manager) Flush(sync bool) error {
	m.Lock()
	defer m.Unlock()
	for _, df := range m.fs {
		if err := df.Flush(sync); err != nil {
			return err
		}
	}
	return nil
}

func (m *manager) Files() int {
	m.Lock()
	defer m.Unlock()
	return len(m.fs)
}

// Alloc hands out an extent area of size bytes from the tail file,
// creating the next file when the tail cannot hold it.
func (m *manager) Alloc(size int32) (locator.Loc, error) {
	if m.inShutdown() {
		return locator.Loc{}, errmsg.Shutdown
	}
	m.Lock()
	defer m.Unlock()
	df, err := m.fileFor(size)
	if err != nil {
		return locator.Loc{}, err
	}
	l := m.tbl.Get(uint64(df.FileNo()))
	l.Lock()
	defer l.Unlock()
	txn := dur.NewTxn(m.jnl, l)
	ru := txn.RecoveryUnit()
	ru.BeginUnit()
	lc, err := df.AllocExtentArea(txn, size)
	if err != nil {
		ru.Rollback()
		return locator.Loc{}, err
	}
	if err := ru.Commit(); err != nil {
		return locator.Loc{}, err
	}
	return lc, nil
}

func (m *manager) At(lc locator.Loc, n int32) ([]byte, error) {
	m.Lock()
	defer m.Unlock()
	if !lc.Valid() || int(lc.FileNo) >= len(m.fs) {
		return nil, fmt.Errorf("locator %v outside the file set: %w", lc, errmsg.BadOffset)
	}
	return m.fs[lc.FileNo].At(lc.Ofs, n)
}

func (m *manager) openExisting() error {
	for i := 0; ; i++ {
		df := datafile.New(int32(i), m.pol, m.log, m.inShutdown, m.schd)
		err := df.OpenExisting(m.fileName(i))
		switch {
		case errors.Is(err, errmsg.NotExist):
			return nil
		case err != nil:
			return err
		}
		if err := m.prepare(df); err != nil {
			df.Close()
			return err
		}
		m.fs = append(m.fs, df)
	}
}

// prepare stamps or upgrades the header under the file's write lock. A
// preallocated file arrives with an all-zero header, and a file whose
// stamp was skipped for lack of the lock is indistinguishable from it:
// both get stamped here.
func (m *manager) prepare(df *datafile.DataFile) error {
	l := m.tbl.Get(uint64(df.FileNo()))
	l.Lock()
	defer l.Unlock()
	txn := dur.NewTxn(m.jnl, l)
	return df.Header().Init(txn, df.FileNo(), df.Length(), m.fileName(int(df.FileNo())), m.log)
}

func (m *manager) fileFor(size int32) (*datafile.DataFile, error) {
	if n := len(m.fs); n > 0 {
		if hdr := m.fs[n-1].Header(); hdr != nil && !hdr.Uninitialized() && hdr.UnusedLength() >= size {
			return m.fs[n-1], nil
		}
	}
	return m.addFile(int64(size))
}

func (m *manager) addFile(minSize int64) (*datafile.DataFile, error) {
	n := len(m.fs)
	df := datafile.New(int32(n), m.pol, m.log, m.inShutdown, m.schd)
	l := m.tbl.Get(uint64(n))
	l.Lock()
	defer l.Unlock()
	txn := dur.NewTxn(m.jnl, l)
	if err := df.Open(txn, m.fileName(n), minSize+constant.HeaderSize+constant.SafetyMargin, false); err != nil {
		df.Close()
		return nil, err
	}
	m.fs = append(m.fs, df)
	if m.cfg.Prealloc {
		next := datafile.New(int32(n+1), m.pol, m.log, m.inShutdown, m.schd)
		if err := next.Open(txn, m.fileName(n+1), m.pol.DefaultSize(int32(n+1)), true); err != nil {
			m.log.Errorf("preallocation of file %v failed: %v\n", n+1, err)
		}
	}
	return df, nil
}

func (m *manager) inShutdown() bool {
	return atomic.LoadInt32(&m.down) == 1
}

func (m *manager) fileName(idx int) string {
	return fmt.Sprintf("%s%c%v.DAT", m.cfg.DirName, os.PathSeparator, idx)
}

func checkDir(dir string) error {
	st, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.Mkdir(dir, os.FileMode(constant.DirPerm))
	}
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("'%s' is not a directory", dir)
	}
	if st.Mode()&0700 != 0700 {
		return errors.New("permission denied")
	}
	return nil
}
