package accounting_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcobambini/TileDB/accounting"
	"github.com/marcobambini/TileDB/arrerr"
)

func TestTracker_AllocUnderCeilingSucceeds(t *testing.T) {
	tr := accounting.NewTracker(100)
	require.NoError(t, tr.Alloc("a", 40, "tile a"))
	require.Equal(t, uint64(40), tr.InUse())
}

func TestTracker_AllocExceedingCeilingFails(t *testing.T) {
	tr := accounting.NewTracker(100)
	require.NoError(t, tr.Alloc("a", 80, "tile a"))

	err := tr.Alloc("b", 40, "tile b")
	require.Error(t, err)
	require.True(t, arrerr.Is(err, arrerr.OutOfMemory))
	require.Equal(t, uint64(80), tr.InUse())
}

func TestTracker_ReleaseFreesTrackedBytes(t *testing.T) {
	tr := accounting.NewTracker(100)
	require.NoError(t, tr.Alloc("a", 60, "tile a"))
	tr.Release("a")
	require.Equal(t, uint64(0), tr.InUse())

	require.NoError(t, tr.Alloc("b", 100, "tile b"))
}

func TestTracker_ReleaseUnknownTokenIsNoop(t *testing.T) {
	tr := accounting.NewTracker(100)
	tr.Release("never-allocated")
	require.Equal(t, uint64(0), tr.InUse())
}

func TestTracker_ZeroCeilingIsUnlimited(t *testing.T) {
	tr := accounting.NewTracker(0)
	require.NoError(t, tr.Alloc("a", 1<<40, "huge"))
	require.Equal(t, uint64(1<<40), tr.InUse())
}
