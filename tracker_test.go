package pqwriter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowTracker(t *testing.T) {
	tr := newRowTracker([]string{"a", "s", "s.inner"})

	require.False(t, tr.pending())
	require.False(t, tr.fill("a"))
	require.False(t, tr.fill("s"))
	require.True(t, tr.pending())
	require.True(t, tr.fill("s.inner"))
	require.Equal(t, 1, tr.count("s.inner"))

	// A second fill within the same row is only counted.
	require.False(t, tr.fill("a"))
	require.Equal(t, 2, tr.count("a"))

	tr.reset()
	require.False(t, tr.pending())
	require.Equal(t, 0, tr.count("a"))

	require.False(t, tr.fill("a"))
	require.False(t, tr.fill("a"))
	require.False(t, tr.fill("s"))
	require.False(t, tr.fill("s.inner"), "a is filled twice, the row is not complete")
}

func TestRowTrackerCompletesOnce(t *testing.T) {
	tr := newRowTracker([]string{"a"})
	require.True(t, tr.fill("a"))
	require.False(t, tr.fill("a"))
	tr.reset()
	require.True(t, tr.fill("a"))
}
