package dur

import (
	"encoding/binary"
	"os"

	"github.com/infinivision/extentdb/constant"
	"github.com/infinivision/extentdb/errmsg"
	"github.com/infinivision/extentdb/sum"
	"golang.org/x/sys/unix"
)

type createdFile struct {
	path   string
	length int64
}

type intent struct {
	path string
	off  int64
	data []byte
}

// Recover replays the journal of dir: registered file creations are
// re-applied, and the pre-images of a unit that never closed are written
// back, newest first, rolling the crash victim back to its last good
// state. The journal is then emptied.
func Recover(dir string) error {
	path := fileName(dir)
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	cfs, ws, open := scan(buf)
	for _, cf := range cfs {
		if err := ensureFile(cf.path, cf.length); err != nil {
			return err
		}
	}
	if open {
		for i := len(ws) - 1; i >= 0; i-- {
			if err := restore(ws[i]); err != nil {
				return err
			}
		}
	}
	return os.Truncate(path, 0)
}

// scan walks the journal records up to the first torn or empty entry.
func scan(buf []byte) ([]createdFile, []intent, bool) {
	var cfs []createdFile
	var ws []intent

	open := false
	for o := 0; len(buf)-o > HeaderSize; {
		n := int(binary.LittleEndian.Uint32(buf[o+SumSize:]))
		if n == 0 || len(buf[o+HeaderSize:]) < n {
			break
		}
		rec := buf[o+HeaderSize : o+HeaderSize+n]
		if sum.Sum(rec) != binary.LittleEndian.Uint32(buf[o:]) {
			break
		}
		switch rec[0] {
		case EM:
			return cfs, ws, open
		case BU:
			open = true
			ws = ws[:0]
		case CU:
			open = false
			ws = ws[:0]
		case WI:
			w, ok := parseIntent(rec)
			if !ok {
				return cfs, ws, open
			}
			ws = append(ws, w)
		case CF:
			cf, ok := parseCreated(rec)
			if !ok {
				return cfs, ws, open
			}
			cfs = append(cfs, cf)
		}
		o += HeaderSize + n
	}
	return cfs, ws, open
}

func parseIntent(rec []byte) (intent, bool) {
	if len(rec) < 3 {
		return intent{}, false
	}
	pn := int(binary.LittleEndian.Uint16(rec[1:]))
	if len(rec[3:]) < pn+12 {
		return intent{}, false
	}
	path := string(rec[3 : 3+pn])
	i := 3 + pn
	off := int64(binary.LittleEndian.Uint64(rec[i:]))
	dn := int(binary.LittleEndian.Uint32(rec[i+8:]))
	if len(rec[i+12:]) < dn {
		return intent{}, false
	}
	return intent{path: path, off: off, data: rec[i+12 : i+12+dn]}, true
}

func parseCreated(rec []byte) (createdFile, bool) {
	if len(rec) < 3 {
		return createdFile{}, false
	}
	pn := int(binary.LittleEndian.Uint16(rec[1:]))
	if len(rec[3:]) < pn+8 {
		return createdFile{}, false
	}
	return createdFile{
		path:   string(rec[3 : 3+pn]),
		length: int64(binary.LittleEndian.Uint64(rec[3+pn:])),
	}, true
}

func ensureFile(path string, length int64) error {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, constant.FilePerm)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return err
	}
	if st.Size < length {
		return unix.Ftruncate(fd, length)
	}
	return nil
}

func restore(w intent) error {
	fp, err := os.OpenFile(w.path, os.O_RDWR, constant.FilePerm)
	if err != nil {
		return err
	}
	defer fp.Close()
	n, err := fp.WriteAt(w.data, w.off)
	switch {
	case err != nil:
		return err
	case n != len(w.data):
		return errmsg.WriteFailed
	}
	return fp.Sync()
}
