package locator

// Loc addresses a byte position across a set of data files as a
// (file number, offset) pair. The null value has FileNo == -1; a Loc
// with both fields zero is a legacy encoding of the empty free list
// and must not be treated as null outside the header upgrade path.
type Loc struct {
	FileNo int32
	Ofs    int32
}
