package main_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/fwojciec/readerly"
	main "github.com/fwojciec/readerly/cmd/readerly"
	"github.com/fwojciec/readerly/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCmd_Run(t *testing.T) {
	t.Parallel()

	checker := func(ok bool, err error) *mock.ReaderableChecker {
		return &mock.ReaderableChecker{
			IsProbablyReaderableFn: func(_ io.Reader) (bool, error) {
				return ok, err
			},
		}
	}

	t.Run("prints readerable", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Checker: checker(true, nil),
		}

		err := (&main.CheckCmd{Source: path}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "readerable\n", stdout.String())
	})

	t.Run("prints not readerable", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Checker: checker(false, nil),
		}

		err := (&main.CheckCmd{Source: path}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "not readerable\n", stdout.String())
	})

	t.Run("reports checker errors", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  stderr,
			Checker: checker(false, readerly.Errorf(readerly.EINVALID, "empty document")),
		}

		err := (&main.CheckCmd{Source: path}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: empty document\n", stderr.String())
		assert.Empty(t, stdout.String())
	})
}
