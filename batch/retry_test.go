package batch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("returns on first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, url string) (string, error) {
			calls++
			return "<html></html>", nil
		}

		html, err := batch.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, []time.Duration{0, 0})

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var logged []string
		fetch := func(_ context.Context, url string) (string, error) {
			calls++
			return "", errors.New("timeout")
		}
		logger := func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		}

		_, err := batch.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, logger, []time.Duration{0, 0})

		require.EqualError(t, err, "timeout")
		assert.Equal(t, 3, calls)
		require.Len(t, logged, 2)
		assert.Contains(t, logged[0], "attempt 2")
	})

	t.Run("does not retry errors no retry can fix", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, url string) (string, error) {
			calls++
			return "", readerly.Errorf(readerly.ETOOLARGE, "too big")
		}

		_, err := batch.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, []time.Duration{0, 0})

		assert.Equal(t, readerly.ETOOLARGE, readerly.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, url string) (string, error) {
			cancel()
			return "", errors.New("unavailable")
		}

		_, err := batch.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, batch.DefaultRetryDelays())
}
