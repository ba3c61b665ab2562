package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionCodeRoundTripsEveryAnswer(t *testing.T) {
	d, err := Embedded()
	require.NoError(t, err)

	seen := map[string]string{}
	for _, w := range d.Answers() {
		code, err := d.EncodeSolution(w)
		require.NoError(t, err)
		assert.NotContains(t, code, w, "solution is not stored in plain view")

		if prev, dup := seen[code]; dup {
			t.Fatalf("code %q shared by %q and %q", code, prev, w)
		}
		seen[code] = w

		got, err := d.DecodeSolution(code)
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}

func TestEncodeRejectsNonSolutions(t *testing.T) {
	d := testDict(t)
	_, err := d.EncodeSolution("erect")
	assert.Error(t, err)
}

func TestDecodeRejectsBadCodes(t *testing.T) {
	d := testDict(t)
	good, err := d.EncodeSolution("there")
	require.NoError(t, err)

	other, err := New([]string{"there", "react"}, nil)
	require.NoError(t, err)
	_, err = other.DecodeSolution(good)
	assert.ErrorIs(t, err, ErrBadSolutionCode, "codes are bound to the answer list they came from")

	fp := good[len("1."):]
	for _, code := range []string{"", "garbage", "1", "zz." + fp, "-1." + fp, "!." + fp} {
		_, err := d.DecodeSolution(code)
		assert.ErrorIs(t, err, ErrBadSolutionCode, code)
	}
}
