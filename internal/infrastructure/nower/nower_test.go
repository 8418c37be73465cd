package nower

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowReturnsRecentTimeInLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	n := New(loc)
	now := n.Now()
	require.WithinDuration(t, time.Now(), now, 50*time.Millisecond)
	require.Equal(t, loc, now.Location())
}

func TestNewDefaultsToUTC(t *testing.T) {
	require.Equal(t, time.UTC, New(nil).Now().Location())
}

func TestFixedAlwaysReturnsSameTime(t *testing.T) {
	at := time.Date(2024, time.April, 12, 19, 9, 0, 0, time.UTC)
	n := Fixed(at)
	require.Equal(t, at, n.Now())
	require.Equal(t, at, n.Now())
}
