package prealloc

import "github.com/nnsgmsone/damrey/logger"

// Scheduler reserves disk space for future data files off the critical
// path. RequestAllocation is fire-and-forget: a full queue drops the
// request rather than block the caller.
type Scheduler interface {
	Run()
	Stop()
	RequestAllocation(path string, size int64)
}

type request struct {
	path string
	size int64
}

type scheduler struct {
	ch  chan struct{}
	rch chan *request
	log logger.Log
}
