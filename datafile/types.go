package datafile

import (
	"github.com/infinivision/extentdb/constant"
	"github.com/infinivision/extentdb/mfile"
	"github.com/infinivision/extentdb/prealloc"
	"github.com/infinivision/extentdb/sizing"
	"github.com/nnsgmsone/damrey/logger"
)

const (
	CurrentVersion      = 4
	CurrentVersionMinor = 5
)

// Field offsets within the fixed header. The layout is on-disk format
// and must not change: the reserved area pads the fields out to exactly
// constant.HeaderSize, and the data region starts right after it.
const (
	oVersion       = 0
	oVersionMinor  = 4
	oFileLength    = 8
	oUnused        = 12
	oUnusedLength  = 20
	oFreeListStart = 24
	oFreeListEnd   = 32
	oReserved      = 40

	reservedSize = constant.HeaderSize - oReserved
)

// Header is a typed view over the first constant.HeaderSize bytes of a
// mapped data file, not a separate allocation. All mutators go through a
// dur.RecoveryUnit so the pre-image is journaled before the mapping
// changes.
type Header struct {
	mf  *mfile.MappedFile
	buf []byte
}

// DataFile owns exactly one mapped file and its header view.
type DataFile struct {
	fileNo     int32
	pol        sizing.Policy
	log        logger.Log
	inShutdown func() bool
	pre        prealloc.Scheduler
	mf         *mfile.MappedFile
	hdr        *Header
}
