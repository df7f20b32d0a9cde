package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("generates unique sortable ids", func(t *testing.T) {
		a := New()
		b := New()
		require.NotEqual(t, a, b)
		require.True(t, a.String() < b.String(), "ids must be monotonically increasing")
	})

	t.Run("embeds a recent timestamp", func(t *testing.T) {
		id := New()
		require.WithinDuration(t, time.Now().UTC(), id.Time(), 2*time.Second)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("round trips a generated id", func(t *testing.T) {
		id := New()
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "   ", "not-a-ulid", "0000"} {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrInvalid)
		}
	})
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	require.True(t, Zero.IsZero())
	require.False(t, New().IsZero())
}
