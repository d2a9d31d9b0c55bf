package readback

// BufferCount is the number of transfer buffers a staged readback alternates.
const BufferCount = 2

// Roles assigns the two transfer buffers to the write target of the next
// asynchronous copy and the read source of the next fetch.
type Roles struct {
	Read  int
	Write int
}

// InitialRoles returns the assignment used by a freshly created Staged.
func InitialRoles() Roles {
	return Roles{Read: 0, Write: 1}
}

// Valid reports whether r uses each of the two buffers exactly once.
func (r Roles) Valid() bool {
	return r.Read != r.Write &&
		r.Read >= 0 && r.Read < BufferCount &&
		r.Write >= 0 && r.Write < BufferCount
}

// Swap returns the assignment for the next tick: the buffer just written
// becomes the read source.
func (r Roles) Swap() Roles {
	return Roles{Read: r.Write, Write: r.Read}
}
