package engine

import "time"

const (
	// trackerTTL bounds how long cross-cycle provenance survives.
	trackerTTL = 5 * time.Minute
	// maxTrackedRecords caps every tracker map and list.
	maxTrackedRecords = 200
)

// ActivationRecord is one piece of activation provenance. Owned exclusively
// by the tracker; callers only see copies through lookups.
type ActivationRecord struct {
	EntryID   string
	Source    string
	Depth     int
	Reason    string
	Timestamp time.Time
}

// RecursionLink records that one entry's activation triggered another.
type RecursionLink struct {
	ParentID  string
	ChildID   string
	Timestamp time.Time
}

// ActivationTracker is the engine's only mutable session state: bounded,
// time-evicted bookkeeping of how entries came to be active. Single writer,
// reset at the start of every generation cycle.
type ActivationTracker struct {
	now func() time.Time

	forced       map[string]ActivationRecord
	vectored     map[string]ActivationRecord
	programmatic map[string]ActivationRecord
	scanDepths   map[string]ActivationRecord
	recursion    []RecursionLink
}

func NewActivationTracker() *ActivationTracker {
	t := &ActivationTracker{now: time.Now}
	t.clearCycleState()
	t.programmatic = make(map[string]ActivationRecord)
	t.scanDepths = make(map[string]ActivationRecord)
	return t
}

func (t *ActivationTracker) clearCycleState() {
	t.forced = make(map[string]ActivationRecord)
	t.vectored = make(map[string]ActivationRecord)
}

// Reset clears per-cycle state and then evicts stale cross-cycle provenance.
// Must run before the cycle's activation events are processed.
func (t *ActivationTracker) Reset() {
	t.clearCycleState()
	t.Cleanup()
}

// Cleanup discards records older than the TTL and trims every map and the
// recursion list to its most recent entries.
func (t *ActivationTracker) Cleanup() {
	cutoff := t.now().Add(-trackerTTL)

	for _, m := range []map[string]ActivationRecord{t.forced, t.vectored, t.programmatic, t.scanDepths} {
		for id, rec := range m {
			if rec.Timestamp.Before(cutoff) {
				delete(m, id)
			}
		}
		trimOldest(m, maxTrackedRecords)
	}

	kept := t.recursion[:0]
	for _, link := range t.recursion {
		if !link.Timestamp.Before(cutoff) {
			kept = append(kept, link)
		}
	}
	t.recursion = kept
	if len(t.recursion) > maxTrackedRecords {
		t.recursion = append([]RecursionLink(nil), t.recursion[len(t.recursion)-maxTrackedRecords:]...)
	}
}

// MarkForceActivated records that an entry was pushed into the prompt by an
// explicit external action.
func (t *ActivationTracker) MarkForceActivated(id, source string) {
	rec := ActivationRecord{EntryID: id, Source: source, Timestamp: t.now()}
	insertCapped(t.forced, id, rec)
	insertCapped(t.programmatic, id, rec)
}

// MarkVectorActivated records that an entry arrived via semantic search.
func (t *ActivationTracker) MarkVectorActivated(id, kind string) {
	rec := ActivationRecord{EntryID: id, Source: kind, Timestamp: t.now()}
	insertCapped(t.vectored, id, rec)
	insertCapped(t.programmatic, id, rec)
}

// MarkRecursion records a parent-to-child activation link.
func (t *ActivationTracker) MarkRecursion(parentID, childID string) {
	t.recursion = append(t.recursion, RecursionLink{
		ParentID:  parentID,
		ChildID:   childID,
		Timestamp: t.now(),
	})
	if len(t.recursion) > maxTrackedRecords {
		t.recursion = t.recursion[len(t.recursion)-maxTrackedRecords:]
	}
}

// MarkScanDepthActivated records the effective depth an entry was scanned at.
func (t *ActivationTracker) MarkScanDepthActivated(id string, depth int, reason string) {
	insertCapped(t.scanDepths, id, ActivationRecord{
		EntryID:   id,
		Depth:     depth,
		Reason:    reason,
		Timestamp: t.now(),
	})
}

// ForcedSource returns the recorded source of a forced activation.
func (t *ActivationTracker) ForcedSource(id string) (string, bool) {
	rec, ok := t.forced[id]
	return rec.Source, ok
}

// VectorKind returns the recorded kind of a vector activation.
func (t *ActivationTracker) VectorKind(id string) (string, bool) {
	rec, ok := t.vectored[id]
	return rec.Source, ok
}

// RecursionParent returns the most recent entry recorded as having
// triggered the given one. Lookup only; the link stays owned by the tracker.
func (t *ActivationTracker) RecursionParent(id string) (string, bool) {
	for i := len(t.recursion) - 1; i >= 0; i-- {
		if t.recursion[i].ChildID == id {
			return t.recursion[i].ParentID, true
		}
	}
	return "", false
}

// ScanDepthRecord returns the recorded scan-depth evidence for an entry.
func (t *ActivationTracker) ScanDepthRecord(id string) (ActivationRecord, bool) {
	rec, ok := t.scanDepths[id]
	return rec, ok
}

// insertCapped adds a record, evicting the oldest existing one when the map
// is full. Maps stay small enough that a linear scan is fine.
func insertCapped(m map[string]ActivationRecord, id string, rec ActivationRecord) {
	if _, exists := m[id]; !exists && len(m) >= maxTrackedRecords {
		evictOldest(m)
	}
	m[id] = rec
}

func evictOldest(m map[string]ActivationRecord) {
	var oldestID string
	var oldest time.Time
	first := true
	for id, rec := range m {
		if first || rec.Timestamp.Before(oldest) {
			oldestID, oldest = id, rec.Timestamp
			first = false
		}
	}
	if !first {
		delete(m, oldestID)
	}
}

func trimOldest(m map[string]ActivationRecord, max int) {
	for len(m) > max {
		evictOldest(m)
	}
}
