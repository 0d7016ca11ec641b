package mfile

import (
	"golang.org/x/sys/unix"

	"github.com/infinivision/extentdb/constant"
)

// Create opens or creates path, grows it to size and maps it read-write.
func Create(path string, size int64) (*MappedFile, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, constant.FilePerm)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)
	if err := unix.Ftruncate(fd, size); err != nil {
		return nil, err
	}
	buf, err := unix.Mmap(fd, 0, int(size), unix.PROT_WRITE|unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &MappedFile{path: path, size: size, buf: buf}, nil
}

// Open maps an existing file at its current length.
func Open(path string, readonly bool) (*MappedFile, error) {
	flag := unix.O_RDWR
	prot := unix.PROT_WRITE | unix.PROT_READ
	if readonly {
		flag = unix.O_RDONLY
		prot = unix.PROT_READ
	}
	fd, err := unix.Open(path, flag, 0)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, err
	}
	buf, err := unix.Mmap(fd, 0, int(st.Size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &MappedFile{path: path, size: st.Size, buf: buf}, nil
}

func (m *MappedFile) Path() string {
	return m.path
}

func (m *MappedFile) View() []byte {
	return m.buf
}

func (m *MappedFile) Length() int64 {
	return m.size
}

func (m *MappedFile) Flush(sync bool) error {
	flag := unix.MS_ASYNC
	if sync {
		flag = unix.MS_SYNC
	}
	return unix.Msync(m.buf, flag)
}

func (m *MappedFile) Close() error {
	if m.buf == nil {
		return nil
	}
	buf := m.buf
	m.buf = nil
	return unix.Munmap(buf)
}
