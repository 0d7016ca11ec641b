package constant

const (
	HeaderSize      = 8192  // on-disk header at offset 0 of every data file
	BlockAlign      = 4096  // file lengths are always a multiple of this
	SafetyMargin    = 16    // bytes kept unreachable at the end of every file
	MinHeaderLength = 32768 // a shorter file cannot hold a header plus data
)

const (
	MinFileSize    = 64 << 20   // base size of file 0
	SmallFileFloor = 16 << 20   // smallest acceptable file in small-files mode
	MaxFileSize    = 0x7ff00000 // upper bound on any data file
	FileSize32     = 512 << 20  // upper bound on a 32-bit address space
	MaxMapSize32   = 1 << 31
	SmallFileShift = 2 // small-files mode divides sizes by 4
)

const (
	JournalSize = 16 << 20
)

const (
	FilePerm = 0664
	DirPerm  = 0775
)
