package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/loretrace/loretrace/internal/domain"
	"go.uber.org/zap"
)

// Resource caps, enforced by truncation rather than errors.
const (
	MaxEntriesPerCycle = 100 // entries analyzed per activation event
	MaxKeysPerEntry    = 20  // primary and secondary keys each
	MaxKeyLength       = 500 // longer keys are skipped
	MaxCrossEntrySet   = 50  // cross-entry matching disabled above this

	maxEvidenceMessages = 3
	excerptLength       = 120
)

// Config holds the engine's process-wide settings.
type Config struct {
	// GlobalScanDepth is the process-wide default message-window size.
	// Zero means unset.
	GlobalScanDepth int
	Debug           bool
}

// Engine reconstructs why each pre-selected lore entry was activated.
// Single-writer, synchronous: callers invoke OnGenerationStart,
// OnEntriesForceActivated and OnEntriesActivated in that order, one
// generation at a time.
type Engine struct {
	cfg       Config
	registry  *domain.CollectionRegistry
	tracker   *ActivationTracker
	detectors []Detector
	logger    *zap.Logger

	cycleID        string
	generationType string
}

func New(cfg Config, registry *domain.CollectionRegistry, logger *zap.Logger) *Engine {
	if registry == nil {
		registry = domain.NewCollectionRegistry(nil, nil)
	}
	return &Engine{
		cfg:       cfg,
		registry:  registry,
		tracker:   NewActivationTracker(),
		detectors: defaultDetectors(),
		logger:    logger,
	}
}

// Tracker exposes the session tracker for provenance marks from callers
// (force-activation events, vector events).
func (e *Engine) Tracker() *ActivationTracker {
	return e.tracker
}

// ActivationInput is the payload of an entries-activated event.
type ActivationInput struct {
	Entries  []domain.LoreEntry
	Messages []domain.ConversationMessage

	// Optional scan-depth overrides; zero means unset.
	ChatScanDepth      int
	CharacterScanDepth int
}

// OnGenerationStart begins a new cycle: the tracker is reset and stale
// provenance evicted. Must be observed before the cycle's activation events.
func (e *Engine) OnGenerationStart(cycleID, generationType string) {
	e.cycleID = cycleID
	e.generationType = generationType
	e.tracker.Reset()
	if e.cfg.Debug {
		e.logger.Debug("generation started",
			zap.String("cycle_id", cycleID),
			zap.String("generation_type", generationType))
	}
}

// OnEntriesForceActivated records external force-activations for the
// current cycle.
func (e *Engine) OnEntriesForceActivated(entries []domain.LoreEntry) {
	for i := range entries {
		e.tracker.MarkForceActivated(entries[i].ID, "force_activated_event")
	}
	if e.cfg.Debug {
		e.logger.Debug("entries force-activated", zap.Int("count", len(entries)))
	}
}

// OnEntriesActivated analyzes the activated entry set and returns exactly
// one report per processed entry. A malformed entry degrades to the unknown
// mechanism; nothing here aborts the batch.
func (e *Engine) OnEntriesActivated(in ActivationInput) []domain.AttributionReport {
	entries := in.Entries
	batchTruncated := false
	if len(entries) > MaxEntriesPerCycle {
		entries = entries[:MaxEntriesPerCycle]
		batchTruncated = true
		e.logger.Warn("activated entry set capped",
			zap.Int("received", len(in.Entries)),
			zap.Int("cap", MaxEntriesPerCycle))
	}

	active := make([]*scanEntry, 0, len(entries))
	for i := range entries {
		se := e.normalizeEntry(&entries[i], in)
		if batchTruncated {
			se.noteTruncation(fmt.Sprintf("entry set capped at %d", MaxEntriesPerCycle))
		}
		active = append(active, se)
	}

	dc := &DetectionContext{
		Tracker:           e.tracker,
		Registry:          e.registry,
		Active:            active,
		CrossEntryEnabled: len(active) <= MaxCrossEntrySet,
	}

	reports := make([]domain.AttributionReport, 0, len(active))
	for _, se := range active {
		reports = append(reports, e.analyzeEntry(dc, se))
	}
	return reports
}

// normalizeEntry compiles keys once, applies key caps, and resolves the
// entry's scan window.
func (e *Engine) normalizeEntry(entry *domain.LoreEntry, in ActivationInput) *scanEntry {
	opts := MatchOptions{
		CaseSensitive:   entry.CaseSensitive,
		MatchWholeWords: entry.MatchWholeWords,
	}
	se := &scanEntry{entry: entry, opts: opts}

	se.primary = e.compileKeys(se, entry.Keys, "primary")
	se.secondary = e.compileKeys(se, entry.SecondaryKeys, "secondary")

	se.depth, se.depthSource = resolveDepthWithSource(entry, in.ChatScanDepth, in.CharacterScanDepth, e.cfg.GlobalScanDepth)
	se.window = lastMessages(in.Messages, se.depth)
	se.scanText = joinMessages(se.window)

	if entry.Vectorized {
		e.tracker.MarkVectorActivated(entry.ID, "entries_activated")
	}
	e.tracker.MarkScanDepthActivated(entry.ID, se.depth, se.depthSource)

	return se
}

func (e *Engine) compileKeys(se *scanEntry, raw []string, kind string) []compiledKey {
	if len(raw) > MaxKeysPerEntry {
		raw = raw[:MaxKeysPerEntry]
		se.noteTruncation(fmt.Sprintf("%s keys capped at %d", kind, MaxKeysPerEntry))
	}
	compiled := make([]compiledKey, 0, len(raw))
	for _, k := range raw {
		if len(k) > MaxKeyLength {
			se.noteTruncation(fmt.Sprintf("over-length %s key skipped", kind))
			continue
		}
		compiled = append(compiled, compileKey(k, se.opts))
	}
	return compiled
}

// analyzeEntry runs the detector chain for one entry. Panics are contained
// here: a single bad entry yields an unknown-mechanism report, never an
// aborted batch.
func (e *Engine) analyzeEntry(dc *DetectionContext, se *scanEntry) (report domain.AttributionReport) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("entry analysis failed",
				zap.String("entry_id", se.entry.ID),
				zap.Any("panic", r))
			report = e.unknownReport(se)
		}
	}()

	for _, d := range e.detectors {
		if det := d.Detect(dc, se); det != nil {
			if e.cfg.Debug {
				e.logger.Debug("detector fired",
					zap.String("entry_id", se.entry.ID),
					zap.String("detector", d.Name()))
			}
			return e.buildReport(se, det)
		}
	}
	return e.unknownReport(se)
}

func (e *Engine) buildReport(se *scanEntry, det *Detection) domain.AttributionReport {
	ev := det.Evidence
	ev.ScanDepth = se.depth
	if se.truncated {
		ev.Truncated = true
		ev.TruncationNote = strings.Join(se.truncationNotes, "; ")
	}
	if det.Mechanism != domain.MechanismSuppressed &&
		se.entry.UseProbability && se.entry.Probability > 0 && se.entry.Probability < 100 {
		ev.ProbabilityNote = fmt.Sprintf("activation was subject to a %d%% probability roll that succeeded", se.entry.Probability)
	}

	return domain.AttributionReport{
		CycleID:        e.cycleID,
		EntryID:        se.entry.ID,
		World:          se.entry.World,
		Mechanism:      det.Mechanism,
		Reason:         det.Reason,
		Summary:        det.Summary,
		Evidence:       ev,
		Category:       Classify(se.entry, e.registry),
		HighConfidence: det.HighConfidence,
		CreatedAt:      time.Now().UTC(),
	}
}

func (e *Engine) unknownReport(se *scanEntry) domain.AttributionReport {
	reason := "no activation mechanism could be determined from entry metadata and recent messages"
	if len(se.entry.Keys) == 0 {
		reason = "no keywords defined"
	}
	det := &Detection{
		Mechanism: domain.MechanismUnknown,
		Reason:    reason,
		Summary:   "Unknown mechanism",
	}
	return e.buildReport(se, det)
}

func lastMessages(messages []domain.ConversationMessage, depth int) []domain.ConversationMessage {
	if depth < 1 {
		depth = 1
	}
	if len(messages) <= depth {
		return messages
	}
	return messages[len(messages)-depth:]
}

func joinMessages(messages []domain.ConversationMessage) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Text)
	}
	return strings.Join(parts, "\n")
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return string(runes[:excerptLength]) + "..."
}
