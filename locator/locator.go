package locator

import "fmt"

func New(fileNo, ofs int32) Loc {
	return Loc{FileNo: fileNo, Ofs: ofs}
}

func Null() Loc {
	return Loc{FileNo: -1}
}

func (l Loc) IsNull() bool {
	return l.FileNo == -1
}

func (l Loc) Valid() bool {
	return l.FileNo >= 0 && l.Ofs >= 0
}

func (l Loc) String() string {
	if l.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%v:%x", l.FileNo, l.Ofs)
}
