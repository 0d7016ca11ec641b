package sizing

import (
	"github.com/infinivision/extentdb/constant"
)

// DefaultSize returns the base size for file fileNo: 64MB doubling up to
// file 4, the fixed cap beyond that, all divided by 4 in small-files mode.
func (p Policy) DefaultSize(fileNo int32) int64 {
	var size int64
	if fileNo <= 4 {
		size = int64(constant.MinFileSize) << uint(fileNo)
	} else {
		size = constant.MaxFileSize
	}
	if p.SmallFiles {
		size >>= constant.SmallFileShift
	}
	return size
}

func (p Policy) MaxSize() int64 {
	if p.MaxMapSize > 0 && p.MaxMapSize <= constant.MaxMapSize32 {
		return constant.FileSize32
	}
	if p.SmallFiles {
		return constant.MaxFileSize >> constant.SmallFileShift
	}
	return constant.MaxFileSize
}

// GrowthSize returns the size for a new file at fileNo that must hold at
// least minSize bytes: the default size doubled until it reaches minSize,
// with one terminal jump to the cap instead of a final doubling.
func (p Policy) GrowthSize(fileNo int32, minSize int64) int64 {
	size := p.DefaultSize(fileNo)
	max := p.MaxSize()
	for size < minSize {
		if size < max/2 {
			size *= 2
		} else {
			size = max
			break
		}
	}
	if size > max {
		size = max
	}
	return size
}
