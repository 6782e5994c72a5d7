package edit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplice_Scenarios(t *testing.T) {
	cases := []struct {
		e    Edit
		want string
	}{
		{Edit{1, 2, 4}, "adefbc"},
		{Edit{4, 5, 1}, "aefbcd"},
		{Edit{0, 0, 5}, "bcdefa"},
		{Edit{5, 5, 0}, "fabcde"},
		{Edit{2, 3, 2}, "abcdef"},
		{Edit{0, 5, 0}, "abcdef"},
	}
	for _, c := range cases {
		seq := []rune("abcdef")
		got := Splice(seq, c.e)
		require.Equal(t, c.want, string(got), "edit %v", c.e)
		require.Equal(t, "abcdef", string(seq), "input must not be modified")
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Edit{0, 5, 0}.Validate(6))
	require.NoError(t, Edit{1, 2, 4}.Validate(6))
	require.NoError(t, Edit{0, 0, 5}.Validate(6))

	bad := []Edit{
		{-1, 2, 0},
		{3, 2, 0},
		{0, 6, 0},
		{1, 2, 5},
		{1, 2, -1},
		{0, 0, 0},
	}
	for _, e := range bad[:5] {
		err := e.Validate(6)
		require.ErrorIs(t, err, ErrOutOfRange, "edit %v", e)
	}
	require.ErrorIs(t, bad[5].Validate(0), ErrOutOfRange)
}

func TestParse(t *testing.T) {
	e, err := Parse("  1 2\t4 ")
	require.NoError(t, err)
	assert.Equal(t, Edit{I: 1, J: 2, K: 4}, e)
	assert.Equal(t, "1 2 4", e.String())

	_, err = Parse("1 2")
	require.ErrorIs(t, err, ErrMalformed)
	_, err = Parse("1 2 x")
	require.ErrorIs(t, err, ErrMalformed)
	_, err = Parse("1 2 3 4")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestRandom_AlwaysValid(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 1; n < 40; n++ {
		for range 200 {
			e := Random(r, n)
			require.NoError(t, e.Validate(n), "n=%d edit=%v", n, e)
		}
	}
}

func TestSplice_PreservesMultiset(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	seq := make([]int, 50)
	for i := range seq {
		seq[i] = i
	}
	for range 500 {
		e := Random(r, len(seq))
		seq = Splice(seq, e)
		seen := make(map[int]bool, len(seq))
		for _, v := range seq {
			require.False(t, seen[v])
			seen[v] = true
		}
		require.Len(t, seen, 50)
	}
}
