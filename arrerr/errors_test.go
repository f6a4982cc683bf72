package arrerr_test

import (
	"fmt"
	"testing"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		invRange := arrerr.New(arrerr.InvalidRange, "lo > hi")
		unsplit := arrerr.New(arrerr.Unsplittable, "value too large")

		tests := []struct {
			err    error
			target arrerr.Code
			exp    bool
		}{
			{err: invRange, target: arrerr.InvalidRange, exp: true},
			{err: invRange, target: arrerr.Unsplittable, exp: false},
			{err: unsplit, target: arrerr.Unsplittable, exp: true},
			{err: arrerr.Wrap(unsplit, "resubmit"), target: arrerr.Unsplittable, exp: true},
		}

		for i, test := range tests {
			t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
				assert.Equal(t, test.exp, arrerr.Is(test.err, test.target))
			})
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		err := arrerr.Wrapf(arrerr.New(arrerr.InvalidBufferSize, "shrank"), "reset_buffers(%d)", 4)
		code, ok := arrerr.CodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, arrerr.InvalidBufferSize, code)
	})
}
