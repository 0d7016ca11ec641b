package sum

import "hash/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func Sum(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}
