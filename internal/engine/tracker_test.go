package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivationTracker_CapsForcedSet(t *testing.T) {
	tr := NewActivationTracker()
	for i := 0; i < 250; i++ {
		tr.MarkForceActivated(fmt.Sprintf("entry-%d", i), "test")
	}
	assert.LessOrEqual(t, len(tr.forced), maxTrackedRecords)
	assert.LessOrEqual(t, len(tr.programmatic), maxTrackedRecords)

	// most recent records survive eviction
	_, ok := tr.ForcedSource("entry-249")
	assert.True(t, ok)
	_, ok = tr.ForcedSource("entry-0")
	assert.False(t, ok)
}

func TestActivationTracker_TTLEviction(t *testing.T) {
	now := time.Now()
	tr := NewActivationTracker()
	tr.now = func() time.Time { return now }

	tr.MarkForceActivated("a", "test")
	tr.MarkVectorActivated("b", "similarity")
	tr.MarkScanDepthActivated("c", 4, "chat_override")
	tr.MarkRecursion("a", "d")

	now = now.Add(trackerTTL + time.Second)
	tr.Cleanup()

	assert.Empty(t, tr.forced)
	assert.Empty(t, tr.vectored)
	assert.Empty(t, tr.programmatic)
	assert.Empty(t, tr.scanDepths)
	assert.Empty(t, tr.recursion)
}

func TestActivationTracker_ResetClearsCycleState(t *testing.T) {
	tr := NewActivationTracker()
	tr.MarkForceActivated("a", "test")
	tr.MarkVectorActivated("b", "similarity")

	tr.Reset()

	_, forced := tr.ForcedSource("a")
	assert.False(t, forced)
	_, vectored := tr.VectorKind("b")
	assert.False(t, vectored)
}

func TestActivationTracker_RecursionParent(t *testing.T) {
	tr := NewActivationTracker()
	tr.MarkRecursion("parent-1", "child")
	tr.MarkRecursion("parent-2", "child")

	parent, ok := tr.RecursionParent("child")
	assert.True(t, ok)
	assert.Equal(t, "parent-2", parent, "most recent link wins")

	_, ok = tr.RecursionParent("nobody")
	assert.False(t, ok)
}

func TestActivationTracker_RecursionListCapped(t *testing.T) {
	tr := NewActivationTracker()
	for i := 0; i < 300; i++ {
		tr.MarkRecursion("parent", fmt.Sprintf("child-%d", i))
	}
	assert.LessOrEqual(t, len(tr.recursion), maxTrackedRecords)
}

func TestActivationTracker_ScanDepthRecord(t *testing.T) {
	tr := NewActivationTracker()
	tr.MarkScanDepthActivated("a", 7, "character_override")

	rec, ok := tr.ScanDepthRecord("a")
	assert.True(t, ok)
	assert.Equal(t, 7, rec.Depth)
	assert.Equal(t, "character_override", rec.Reason)
}
