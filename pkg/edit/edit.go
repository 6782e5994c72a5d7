// Package edit describes block-relocation edits on a fixed-length sequence
// and provides the plain slice implementation used as a reference.
package edit

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

var (
	// ErrOutOfRange indicates an edit that does not fit the sequence it is applied to.
	ErrOutOfRange = errors.New("edit out of range")

	// ErrMalformed indicates an edit that could not be parsed.
	ErrMalformed = errors.New("malformed edit")
)

// Edit moves the elements at positions [I, J] so that they start at K.
type Edit struct {
	I, J, K int
}

// Len returns the number of elements moved.
func (e Edit) Len() int {
	return e.J - e.I + 1
}

// IsNoop reports whether the edit leaves every sequence unchanged.
func (e Edit) IsNoop() bool {
	return e.K == e.I
}

func (e Edit) String() string {
	return fmt.Sprintf("%d %d %d", e.I, e.J, e.K)
}

// Validate checks the edit against a sequence of length n.
func (e Edit) Validate(n int) error {
	if e.I < 0 || e.I > e.J || e.J >= n {
		return fmt.Errorf("%w: range [%d, %d] in sequence of length %d", ErrOutOfRange, e.I, e.J, n)
	}
	if e.K < 0 || e.K > n-e.Len() {
		return fmt.Errorf("%w: target %d for %d elements in sequence of length %d", ErrOutOfRange, e.K, e.Len(), n)
	}
	return nil
}

// Parse reads an edit written as three whitespace separated integers "i j k".
func Parse(line string) (Edit, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Edit{}, fmt.Errorf("%w: want 3 fields, got %d in %q", ErrMalformed, len(fields), line)
	}
	var vals [3]int
	for idx, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Edit{}, fmt.Errorf("%w: %q: %v", ErrMalformed, f, err)
		}
		vals[idx] = v
	}
	return Edit{I: vals[0], J: vals[1], K: vals[2]}, nil
}

// Splice applies e to seq by copying slices. seq is not modified; the result
// is always a new slice. e must be valid for len(seq).
func Splice[T any](seq []T, e Edit) []T {
	out := make([]T, 0, len(seq))
	switch {
	case e.K == e.I:
		return append(out, seq...)
	case e.K > e.I:
		shift := e.K - e.I
		out = append(out, seq[:e.I]...)
		out = append(out, seq[e.J+1:e.J+1+shift]...)
		out = append(out, seq[e.I:e.J+1]...)
		out = append(out, seq[e.J+1+shift:]...)
	default:
		out = append(out, seq[:e.K]...)
		out = append(out, seq[e.I:e.J+1]...)
		out = append(out, seq[e.K:e.I]...)
		out = append(out, seq[e.J+1:]...)
	}
	return out
}

// Random draws a valid edit for a sequence of length n > 0, using the same
// distribution as the speed test: i uniform, j uniform in [i, n), k uniform
// over every valid target.
func Random(r *rand.Rand, n int) Edit {
	i := r.Intn(n)
	j := i + r.Intn(n-i)
	k := r.Intn(n - (j - i + 1) + 1)
	return Edit{I: i, J: j, K: k}
}
