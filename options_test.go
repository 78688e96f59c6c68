package readerly_test

import (
	"testing"

	"github.com/fwojciec/readerly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts default options", func(t *testing.T) {
		t.Parallel()
		opts := readerly.DefaultOptions()
		require.NoError(t, opts.Validate())
		assert.Equal(t, 5, opts.NbTopCandidates)
		assert.Equal(t, 500, opts.CharThreshold)
		assert.Equal(t, []string{"page"}, opts.ClassesToPreserve)
	})

	t.Run("rejects negative max elements", func(t *testing.T) {
		t.Parallel()
		opts := readerly.DefaultOptions()
		opts.MaxElemsToParse = -1
		err := opts.Validate()
		require.Error(t, err)
		assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(err))
	})

	t.Run("rejects zero top candidates", func(t *testing.T) {
		t.Parallel()
		opts := readerly.DefaultOptions()
		opts.NbTopCandidates = 0
		assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(opts.Validate()))
	})

	t.Run("rejects negative char threshold", func(t *testing.T) {
		t.Parallel()
		opts := readerly.DefaultOptions()
		opts.CharThreshold = -5
		assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(opts.Validate()))
	})
}
