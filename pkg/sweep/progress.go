package sweep

// Progress receives sweep events. Calls happen outside timed regions, from
// the sweep goroutine.
type Progress interface {
	// Size reports that group (a pattern or a case name) moved to size.
	Size(group string, size int)
	// Trial reports one finished trial or batch of op and the bytes it moved.
	Trial(op string, written, read int64)
}

type nopProgress struct{}

func (nopProgress) Size(string, int)           {}
func (nopProgress) Trial(string, int64, int64) {}

func orNop(p Progress) Progress {
	if p == nil {
		return nopProgress{}
	}
	return p
}
