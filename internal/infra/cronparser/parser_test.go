package cronparser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/downscaler-controller/internal/infra/cronparser"
)

func TestSchedule_Next(t *testing.T) {
	t.Parallel()

	t.Run("every five minutes", func(t *testing.T) {
		t.Parallel()

		s, err := cronparser.New("*/5 * * * *", "")
		require.NoError(t, err)

		after := time.Date(2026, 10, 14, 7, 1, 0, 0, time.UTC)
		next := s.Next(after)
		require.True(t, time.Date(2026, 10, 14, 7, 5, 0, 0, time.UTC).Equal(next), "next: %s", next)
		require.Equal(t, "*/5 * * * *", s.String())
	})

	t.Run("with tz uses timezone", func(t *testing.T) {
		t.Parallel()

		s, err := cronparser.New("0 8 * * *", "America/New_York")
		require.NoError(t, err)

		after := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
		next := s.Next(after)
		require.True(t, next.After(after))
		require.Equal(t, 12, next.UTC().Hour())
	})

	t.Run("inline CRON_TZ ignores tz param", func(t *testing.T) {
		t.Parallel()

		s, err := cronparser.New("CRON_TZ=UTC 0 14 * * *", "America/New_York")
		require.NoError(t, err)

		after := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
		next := s.Next(after)
		require.Equal(t, 14, next.UTC().Hour())
	})

	t.Run("spec without activation returns error", func(t *testing.T) {
		t.Parallel()

		_, err := cronparser.New("0 0 30 2 *", "")
		require.ErrorIs(t, err, cronparser.ErrNoActivation)
	})

	t.Run("malformed spec returns error", func(t *testing.T) {
		t.Parallel()

		_, err := cronparser.New("invalid", "")
		require.Error(t, err)
	})
}
