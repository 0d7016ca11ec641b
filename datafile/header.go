package datafile

import (
	"encoding/binary"
	"fmt"

	"github.com/infinivision/extentdb/constant"
	"github.com/infinivision/extentdb/dur"
	"github.com/infinivision/extentdb/errmsg"
	"github.com/infinivision/extentdb/locator"
	"github.com/infinivision/extentdb/mfile"
	"github.com/nnsgmsone/damrey/logger"
)

func newHeader(mf *mfile.MappedFile) *Header {
	return &Header{mf: mf, buf: mf.View()[:constant.HeaderSize]}
}

func (h *Header) Version() int32 {
	return h.getInt(oVersion)
}

func (h *Header) VersionMinor() int32 {
	return h.getInt(oVersionMinor)
}

func (h *Header) FileLength() int32 {
	return h.getInt(oFileLength)
}

func (h *Header) Unused() locator.Loc {
	return h.getLoc(oUnused)
}

func (h *Header) UnusedLength() int32 {
	return h.getInt(oUnusedLength)
}

func (h *Header) FreeListStart() locator.Loc {
	return h.getLoc(oFreeListStart)
}

func (h *Header) FreeListEnd() locator.Loc {
	return h.getLoc(oFreeListEnd)
}

// Uninitialized reports a brand new file: nothing has ever stamped it.
func (h *Header) Uninitialized() bool {
	return h.Version() == 0 && h.FileLength() == 0
}

// Init stamps a freshly mapped file. A file whose header is already
// stamped is routed to CheckUpgrade instead. The creation registration
// deliberately sits outside the unit: rolling back the enclosing
// operation must leave an empty usable file, not delete it. If the write
// lock of the unit is not held the stamp is skipped; the file stays in
// the uninitialized state and the owner must retry under the lock.
func (h *Header) Init(txn dur.Txn, fileNo int32, fileLength int64, path string, log logger.Log) error {
	if !h.Uninitialized() {
		return h.CheckUpgrade(txn)
	}
	if fileLength <= constant.MinHeaderLength {
		return fmt.Errorf("header looks corrupt at file open, filelength: %v fileno: %v: %w",
			fileLength, fileNo, errmsg.Corrupt)
	}
	if !txn.LockState().IsWriteLocked() {
		log.Errorf("not initializing %s: write lock not held\n", path)
		return nil
	}
	ru := txn.RecoveryUnit()
	if err := ru.CreatedFile(path, fileLength); err != nil {
		return err
	}
	ru.BeginUnit()
	h.setInt(ru, oFileLength, int32(fileLength))
	h.setInt(ru, oVersion, CurrentVersion)
	h.setInt(ru, oVersionMinor, CurrentVersionMinor)
	h.setLoc(ru, oUnused, locator.New(fileNo, constant.HeaderSize))
	h.setInt(ru, oUnusedLength, int32(fileLength)-constant.HeaderSize-constant.SafetyMargin)
	h.setLoc(ru, oFreeListStart, locator.Null())
	h.setLoc(ru, oFreeListEnd, locator.Null())
	return ru.Commit()
}

// CheckUpgrade rewrites the legacy empty free list, encoded as two
// all-zero locators, to the explicit null encoding. Idempotent: once
// rewritten the anchors are null and the check never fires again.
func (h *Header) CheckUpgrade(txn dur.Txn) error {
	legacy := locator.Loc{}
	if h.FreeListStart() != legacy {
		return nil
	}
	if h.FreeListEnd() != legacy {
		return fmt.Errorf("free list anchors disagree, start: %v end: %v: %w",
			h.FreeListStart(), h.FreeListEnd(), errmsg.Corrupt)
	}
	ru := txn.RecoveryUnit()
	ru.BeginUnit()
	h.setLoc(ru, oFreeListStart, locator.Null())
	h.setLoc(ru, oFreeListEnd, locator.Null())
	return ru.Commit()
}

func (h *Header) getInt(off int) int32 {
	return int32(binary.LittleEndian.Uint32(h.buf[off:]))
}

func (h *Header) getLoc(off int) locator.Loc {
	return locator.Loc{
		FileNo: h.getInt(off),
		Ofs:    h.getInt(off + 4),
	}
}

func (h *Header) setInt(ru dur.RecoveryUnit, off int, v int32) {
	buf := ru.Writing(h.mf, int64(off), 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
}

func (h *Header) setLoc(ru dur.RecoveryUnit, off int, lc locator.Loc) {
	buf := ru.Writing(h.mf, int64(off), 8)
	binary.LittleEndian.PutUint32(buf, uint32(lc.FileNo))
	binary.LittleEndian.PutUint32(buf[4:], uint32(lc.Ofs))
}
