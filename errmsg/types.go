package errmsg

import "errors"

var (
	NotExist    = errors.New("not exist")
	OpenFailed  = errors.New("open failed")
	MapFailed   = errors.New("map failed")
	ReadFailed  = errors.New("read failed")
	WriteFailed = errors.New("write failed")
	Corrupt     = errors.New("corrupt data file")
	BadSize     = errors.New("bad file size")
	BadOffset   = errors.New("bad offset")
	OutOfSpace  = errors.New("out of space")
	Shutdown    = errors.New("shutdown in progress")
	NoHeader    = errors.New("no header")
	DirLocked   = errors.New("directory is used by another process")
)
