package datafile

import (
	"fmt"
	"math"
	"os"

	"github.com/infinivision/extentdb/constant"
	"github.com/infinivision/extentdb/dur"
	"github.com/infinivision/extentdb/errmsg"
	"github.com/infinivision/extentdb/locator"
	"github.com/infinivision/extentdb/mfile"
	"github.com/infinivision/extentdb/prealloc"
	"github.com/infinivision/extentdb/sizing"
	"github.com/nnsgmsone/damrey/logger"
)

func New(fileNo int32, pol sizing.Policy, log logger.Log, inShutdown func() bool, pre prealloc.Scheduler) *DataFile {
	return &DataFile{
		pol:        pol,
		log:        log,
		pre:        pre,
		fileNo:     fileNo,
		inShutdown: inShutdown,
	}
}

// Open creates path at the growth size for minSize, maps it and stamps
// the header. With preallocateOnly the file is only handed to the
// background preallocator; nothing is mapped.
func (df *DataFile) Open(txn dur.Txn, path string, minSize int64, preallocateOnly bool) error {
	size := df.pol.GrowthSize(df.fileNo, minSize)
	if size%constant.BlockAlign != 0 {
		return fmt.Errorf("growth size %v of file %v not block aligned: %w", size, df.fileNo, errmsg.BadSize)
	}
	if size < constant.MinFileSize && !df.pol.SmallFiles {
		return fmt.Errorf("growth size %v of file %v below minimum: %w", size, df.fileNo, errmsg.BadSize)
	}
	if preallocateOnly {
		if df.pre != nil {
			df.pre.RequestAllocation(path, size)
		}
		return nil
	}
	if df.mf != nil {
		return fmt.Errorf("file %v already mapped: %w", df.fileNo, errmsg.OpenFailed)
	}
	mf, err := mfile.Create(path, size)
	if err != nil {
		return fmt.Errorf("create %s: %v: %w", path, err, errmsg.OpenFailed)
	}
	if mf.View() == nil {
		return fmt.Errorf("cannot map file memory for %s: %w", path, errmsg.MapFailed)
	}
	df.mf = mf
	df.hdr = newHeader(mf)
	return df.hdr.Init(txn, df.fileNo, size, path, df.log)
}

// OpenExisting maps a file that is already on disk. A missing path is
// the recoverable errmsg.NotExist; a length that cannot have come from
// the sizing policy is corruption. A whole-megabyte length of at least
// the small-files floor while small-files mode is off is only a
// configuration mismatch and is logged, not rejected.
func (df *DataFile) OpenExisting(path string) error {
	if df.mf != nil {
		return fmt.Errorf("file %v already mapped: %w", df.fileNo, errmsg.OpenFailed)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errmsg.NotExist
	}
	mf, err := mfile.Open(path, false)
	if err != nil {
		return fmt.Errorf("open %s: %v: %w", path, err, errmsg.OpenFailed)
	}
	sz := mf.Length()
	if sz > math.MaxInt32 || sz%constant.BlockAlign != 0 {
		mf.Close()
		return fmt.Errorf("file %s has impossible length %v: %w", path, sz, errmsg.Corrupt)
	}
	if sz < constant.MinFileSize && !df.pol.SmallFiles {
		if sz >= constant.SmallFileFloor && sz%(1<<20) == 0 {
			df.log.Errorf("file %s has length %v but small-files mode is off\n", path, sz)
		} else {
			mf.Close()
			return fmt.Errorf("file %s length %v below minimum file size expectation: %w",
				path, sz, errmsg.Corrupt)
		}
	}
	if mf.View() == nil {
		mf.Close()
		return fmt.Errorf("cannot map file memory for %s: %w", path, errmsg.MapFailed)
	}
	df.mf = mf
	df.hdr = newHeader(mf)
	return nil
}

// AllocExtentArea advances the bump pointer by size bytes and returns
// the start of the area. It never reuses freed space and never
// truncates: a request beyond the unused capacity is a caller bug
// surfaced as errmsg.OutOfSpace. Callers hold the unit write lock and
// own the unit on txn.
func (df *DataFile) AllocExtentArea(txn dur.Txn, size int32) (locator.Loc, error) {
	if df.inShutdown != nil && df.inShutdown() {
		return locator.Loc{}, errmsg.Shutdown
	}
	if df.hdr == nil {
		return locator.Loc{}, fmt.Errorf("no header on new extent, 32 bit mmap space exceeded?: %w", errmsg.NoHeader)
	}
	if size < 0 {
		return locator.Loc{}, fmt.Errorf("extent of %v bytes: %w", size, errmsg.BadSize)
	}
	if size > df.hdr.UnusedLength() {
		return locator.Loc{}, fmt.Errorf("extent of %v bytes exceeds %v unused bytes of file %v: %w",
			size, df.hdr.UnusedLength(), df.fileNo, errmsg.OutOfSpace)
	}
	ru := txn.RecoveryUnit()
	ofs := df.hdr.Unused().Ofs
	df.hdr.setLoc(ru, oUnused, locator.New(df.fileNo, ofs+size))
	df.hdr.setInt(ru, oUnusedLength, df.hdr.UnusedLength()-size)
	return locator.New(df.fileNo, ofs), nil
}

// At returns n bytes of the data region starting at ofs. Offsets
// outside the region historically mean address space exhaustion or
// corruption, so the error points at the data recovery documentation.
func (df *DataFile) At(ofs, n int32) ([]byte, error) {
	if df.mf == nil {
		return nil, errmsg.NoHeader
	}
	if n < 0 || ofs < constant.HeaderSize || int64(ofs)+int64(n) > df.mf.Length()-constant.SafetyMargin {
		return nil, fmt.Errorf("bad offset: %v accessing file: %s, see the data recovery documentation: %w",
			ofs, df.mf.Path(), errmsg.BadOffset)
	}
	return df.mf.View()[ofs : ofs+n], nil
}

func (df *DataFile) Header() *Header {
	return df.hdr
}

func (df *DataFile) FileNo() int32 {
	return df.fileNo
}

func (df *DataFile) Length() int64 {
	if df.mf == nil {
		return 0
	}
	return df.mf.Length()
}

func (df *DataFile) Flush(sync bool) error {
	if df.mf == nil {
		return nil
	}
	return df.mf.Flush(sync)
}

func (df *DataFile) Close() error {
	if df.mf == nil {
		return nil
	}
	df.hdr = nil
	return df.mf.Close()
}
