package sizing

// Policy computes data file sizes. MaxMapSize is the maximum addressable
// mapping size of the running process; at or below constant.MaxMapSize32
// the 32-bit limits apply. Zero means unconstrained.
type Policy struct {
	SmallFiles bool
	MaxMapSize int64
}
