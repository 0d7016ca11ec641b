package dur

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/infinivision/extentdb/constant"
	"github.com/infinivision/extentdb/errmsg"
	"github.com/infinivision/extentdb/mfile"
	"github.com/infinivision/extentdb/sum"
	"github.com/nnsgmsone/damrey/logger"
)

func NewTxn(ru RecoveryUnit, ls LockState) Txn {
	return &txn{ru: ru, ls: ls}
}

func (t *txn) RecoveryUnit() RecoveryUnit {
	return t.ru
}

func (t *txn) LockState() LockState {
	return t.ls
}

// NewJournal maps the journal file of dir. Recover must have run first.
func NewJournal(dir string, log logger.Log) (*journal, error) {
	fp, err := mfile.Create(fileName(dir), constant.JournalSize)
	if err != nil {
		return nil, err
	}
	return &journal{fp: fp, log: log}, nil
}

func (j *journal) Close() error {
	path := j.fp.Path()
	if err := j.fp.Flush(true); err != nil {
		return err
	}
	if err := j.fp.Close(); err != nil {
		return err
	}
	return os.Truncate(path, 0)
}

func (j *journal) BeginUnit() {
	j.ws = j.ws[:0]
	if err := j.append([]byte{BU}); err != nil {
		j.log.Fatalf("journal begin unit failed: %v\n", err)
	}
}

func (j *journal) Commit() error {
	j.ws = j.ws[:0]
	return j.append([]byte{CU})
}

// Rollback restores the pre-images of the current unit into the mapped
// views, newest first, then closes the unit.
func (j *journal) Rollback() {
	for i := len(j.ws) - 1; i >= 0; i-- {
		w := j.ws[i]
		copy(w.f.View()[w.off:], w.data)
	}
	j.ws = j.ws[:0]
	if err := j.append([]byte{CU}); err != nil {
		j.log.Fatalf("journal rollback failed: %v\n", err)
	}
}

func (j *journal) Writing(f File, off int64, n int) []byte {
	view := f.View()
	pre := append([]byte{}, view[off:off+int64(n)]...)
	path := f.Path()
	record := make([]byte, 1+2+len(path)+8+4+len(pre))
	record[0] = WI
	binary.LittleEndian.PutUint16(record[1:], uint16(len(path)))
	copy(record[3:], path)
	i := 3 + len(path)
	binary.LittleEndian.PutUint64(record[i:], uint64(off))
	binary.LittleEndian.PutUint32(record[i+8:], uint32(len(pre)))
	copy(record[i+12:], pre)
	if err := j.append(record); err != nil {
		j.log.Fatalf("journal write intent failed: %v\n", err)
	}
	j.ws = append(j.ws, preimage{f: f, off: off, data: pre})
	return view[off : off+int64(n)]
}

func (j *journal) CreatedFile(path string, length int64) error {
	record := make([]byte, 1+2+len(path)+8)
	record[0] = CF
	binary.LittleEndian.PutUint16(record[1:], uint16(len(path)))
	copy(record[3:], path)
	binary.LittleEndian.PutUint64(record[3+len(path):], uint64(length))
	return j.append(record)
}

func (j *journal) append(record []byte) error {
	j.Lock()
	defer j.Unlock()
	buf := j.fp.View()
	if j.size+int64(HeaderSize+len(record)) > j.fp.Length() {
		return errmsg.OutOfSpace
	}
	binary.LittleEndian.PutUint32(buf[j.size:], sum.Sum(record))
	binary.LittleEndian.PutUint32(buf[j.size+SumSize:], uint32(len(record)))
	copy(buf[j.size+HeaderSize:], record)
	j.size += int64(HeaderSize + len(record))
	return j.fp.Flush(true)
}

func fileName(dir string) string {
	return fmt.Sprintf("%s%cJOURNAL", dir, os.PathSeparator)
}
