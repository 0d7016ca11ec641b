package prealloc

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/infinivision/extentdb/constant"
	"github.com/nnsgmsone/damrey/logger"
)

func New(log logger.Log) *scheduler {
	return &scheduler{
		log: log,
		ch:  make(chan struct{}),
		rch: make(chan *request, 1024),
	}
}

func (s *scheduler) Run() {
	for {
		select {
		case <-s.ch:
			s.ch <- struct{}{}
			return
		case r := <-s.rch:
			s.allocate(r)
		}
	}
}

func (s *scheduler) Stop() {
	s.ch <- struct{}{}
	<-s.ch
}

func (s *scheduler) RequestAllocation(path string, size int64) {
	select {
	case s.rch <- &request{path: path, size: size}:
	default:
		s.log.Errorf("preallocation of %s dropped: queue full\n", path)
	}
}

func (s *scheduler) allocate(r *request) {
	if st, err := os.Stat(r.path); err == nil && st.Size() >= r.size {
		return
	}
	fd, err := unix.Open(r.path, unix.O_CREAT|unix.O_RDWR, constant.FilePerm)
	if err != nil {
		s.log.Errorf("preallocation of %s failed: %v\n", r.path, err)
		return
	}
	defer unix.Close(fd)
	if err := unix.Ftruncate(fd, r.size); err != nil {
		s.log.Errorf("preallocation of %s failed: %v\n", r.path, err)
	}
}
