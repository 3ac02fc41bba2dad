package engine

import (
	"fmt"

	"github.com/loretrace/loretrace/internal/domain"
)

// scanEntry is a LoreEntry normalized for one analysis pass: keys compiled,
// scan window resolved and sliced, truncation recorded.
type scanEntry struct {
	entry     *domain.LoreEntry
	opts      MatchOptions
	primary   []compiledKey
	secondary []compiledKey

	depth       int
	depthSource string
	window      []domain.ConversationMessage
	scanText    string

	truncated       bool
	truncationNotes []string
}

func (se *scanEntry) noteTruncation(note string) {
	se.truncated = true
	se.truncationNotes = append(se.truncationNotes, note)
}

// DetectionContext is the shared read-mostly state one detector pass runs
// against. The tracker is its only mutable member.
type DetectionContext struct {
	Tracker           *ActivationTracker
	Registry          *domain.CollectionRegistry
	Active            []*scanEntry
	CrossEntryEnabled bool
}

// Detection is a positive result from a single detector.
type Detection struct {
	Mechanism      domain.Mechanism
	Reason         string
	Summary        string
	Evidence       domain.Evidence
	HighConfidence bool
}

// Detector tests exactly one activation mechanism. Returns nil when the
// mechanism does not apply; the chain stops at the first non-nil result.
type Detector interface {
	Name() string
	Detect(dc *DetectionContext, se *scanEntry) *Detection
}

// defaultDetectors returns the fixed evaluation order. Global-context
// outranks collection membership.
func defaultDetectors() []Detector {
	return []Detector{
		decoratorDetector{},
		constantDetector{},
		vectorizedDetector{},
		stickyDetector{},
		globalContextDetector{},
		collectionDetector{},
		keywordDetector{},
		crossEntryDetector{},
	}
}

type decoratorDetector struct{}

func (decoratorDetector) Name() string { return "decorator" }

func (decoratorDetector) Detect(dc *DetectionContext, se *scanEntry) *Detection {
	if se.entry.HasDecorator(domain.DecoratorActivate) {
		det := &Detection{
			Mechanism:      domain.MechanismForced,
			Reason:         fmt.Sprintf("entry carries the %s decorator, which forces inclusion on every scan", domain.DecoratorActivate),
			Summary:        "Forced by decorator",
			Evidence:       domain.Evidence{Decorator: domain.DecoratorActivate},
			HighConfidence: true,
		}
		if source, ok := dc.Tracker.ForcedSource(se.entry.ID); ok {
			det.Evidence.ActivationSource = source
		}
		return det
	}
	if se.entry.HasDecorator(domain.DecoratorSuppress) {
		return &Detection{
			Mechanism:      domain.MechanismSuppressed,
			Reason:         fmt.Sprintf("entry carries the %s decorator and was suppressed; it should not appear in the prompt", domain.DecoratorSuppress),
			Summary:        "Suppressed by decorator",
			Evidence:       domain.Evidence{Decorator: domain.DecoratorSuppress},
			HighConfidence: true,
		}
	}
	return nil
}

type constantDetector struct{}

func (constantDetector) Name() string { return "constant" }

func (constantDetector) Detect(_ *DetectionContext, se *scanEntry) *Detection {
	if !se.entry.Constant {
		return nil
	}
	return &Detection{
		Mechanism:      domain.MechanismConstant,
		Reason:         "entry is marked constant and is included in every generation regardless of chat content",
		Summary:        "Constant entry",
		HighConfidence: true,
	}
}

type vectorizedDetector struct{}

func (vectorizedDetector) Name() string { return "vectorized" }

func (vectorizedDetector) Detect(dc *DetectionContext, se *scanEntry) *Detection {
	if !se.entry.Vectorized {
		return nil
	}
	det := &Detection{
		Mechanism:      domain.MechanismVectorized,
		Reason:         "entry is vectorized; it was selected by semantic similarity search rather than keyword matching",
		Summary:        "Vector match",
		HighConfidence: true,
	}
	if kind, ok := dc.Tracker.VectorKind(se.entry.ID); ok {
		det.Evidence.ActivationSource = kind
	}
	return det
}

type stickyDetector struct{}

func (stickyDetector) Name() string { return "sticky" }

func (stickyDetector) Detect(_ *DetectionContext, se *scanEntry) *Detection {
	remaining := se.entry.StickyRemaining
	if remaining == 0 && se.entry.Sticky > 0 {
		remaining = se.entry.Sticky
	}
	if remaining <= 0 {
		return nil
	}
	return &Detection{
		Mechanism:      domain.MechanismSticky,
		Reason:         fmt.Sprintf("entry is sticky from an earlier trigger and remains active for %d more turn(s)", remaining),
		Summary:        "Sticky from previous trigger",
		Evidence:       domain.Evidence{StickyRemaining: remaining},
		HighConfidence: true,
	}
}

type globalContextDetector struct{}

func (globalContextDetector) Name() string { return "global_context" }

func (globalContextDetector) Detect(_ *DetectionContext, se *scanEntry) *Detection {
	if !se.entry.HasGlobalContextMatch() {
		return nil
	}
	fields := se.entry.GlobalContextFields()
	return &Detection{
		Mechanism: domain.MechanismGlobalContext,
		Reason:    fmt.Sprintf("entry matches against global context fields (%s) rather than chat messages", joinFields(fields)),
		Summary:   "Global context match",
		Evidence:  domain.Evidence{ContextFields: fields},
	}
}

type collectionDetector struct{}

func (collectionDetector) Name() string { return "collection" }

func (collectionDetector) Detect(dc *DetectionContext, se *scanEntry) *Detection {
	world := se.entry.World
	switch {
	case dc.Registry.IsCharacterRepository(world):
		return &Detection{
			Mechanism: domain.MechanismCollection,
			Reason:    fmt.Sprintf("entry belongs to %q, a registered character repository whose entries are included by membership", world),
			Summary:   "Character repository entry",
			Evidence:  domain.Evidence{Collection: world, CollectionKind: domain.CollectionKindCharacterRepo},
		}
	case dc.Registry.IsTagLibrary(world):
		return &Detection{
			Mechanism: domain.MechanismCollection,
			Reason:    fmt.Sprintf("entry belongs to %q, a registered tag library whose entries are included by membership", world),
			Summary:   "Tag library entry",
			Evidence:  domain.Evidence{Collection: world, CollectionKind: domain.CollectionKindTagLibrary},
		}
	}
	return nil
}

type keywordDetector struct{}

func (keywordDetector) Name() string { return "keyword" }

func (keywordDetector) Detect(_ *DetectionContext, se *scanEntry) *Detection {
	if len(se.primary) == 0 || se.scanText == "" {
		return nil
	}

	var matched []string
	for _, k := range se.primary {
		if k.matches(se.scanText) {
			matched = append(matched, k.raw)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	det := &Detection{
		Mechanism:      domain.MechanismKeyword,
		Summary:        "Keyword match",
		HighConfidence: true,
		Evidence: domain.Evidence{
			MatchedKeys:        matched,
			TriggeringMessages: triggeringExcerpts(se),
		},
	}
	det.Reason = fmt.Sprintf("primary keyword %q found within the last %d message(s)", matched[0], se.depth)

	if se.entry.Selective && len(se.secondary) > 0 {
		secondary := evaluateSecondary(se.entry.SelectiveLogic, se.secondary, se.scanText)
		if !secondary.Passed {
			return nil
		}
		det.Evidence.MatchedSecondaryKeys = secondary.MatchedKeys
		det.Evidence.SecondaryLogic = se.entry.SelectiveLogic.String()
		det.Reason += fmt.Sprintf("; secondary filter (%s) satisfied", se.entry.SelectiveLogic)
	}

	return det
}

// triggeringExcerpts returns short excerpts of the window messages that a
// primary key matched inside, most recent first, capped.
func triggeringExcerpts(se *scanEntry) []string {
	var excerpts []string
	for i := len(se.window) - 1; i >= 0 && len(excerpts) < maxEvidenceMessages; i-- {
		msg := se.window[i]
		for _, k := range se.primary {
			if k.matches(msg.Text) {
				excerpts = append(excerpts, excerpt(msg.Text))
				break
			}
		}
	}
	return excerpts
}

type crossEntryDetector struct{}

func (crossEntryDetector) Name() string { return "cross_entry" }

func (crossEntryDetector) Detect(dc *DetectionContext, se *scanEntry) *Detection {
	if !dc.CrossEntryEnabled || len(se.primary) == 0 {
		return nil
	}

	for _, other := range dc.Active {
		if other.entry.ID == se.entry.ID || other.entry.Content == "" {
			continue
		}
		for _, k := range se.primary {
			if k.matches(other.entry.Content) {
				dc.Tracker.MarkRecursion(other.entry.ID, se.entry.ID)
				return &Detection{
					Mechanism: domain.MechanismCrossEntry,
					Reason:    fmt.Sprintf("entry's key %q appears in the content of active entry %q (recursive activation)", k.raw, other.entry.ID),
					Summary:   "Triggered by another entry",
					Evidence: domain.Evidence{
						SourceEntryID: other.entry.ID,
						MatchedKeys:   []string{k.raw},
					},
				}
			}
		}
	}

	// Content scan found nothing in the current set; a recorded link from
	// an earlier pass (parent since deactivated) still explains the entry.
	if parent, ok := dc.Tracker.RecursionParent(se.entry.ID); ok {
		return &Detection{
			Mechanism: domain.MechanismCrossEntry,
			Reason:    fmt.Sprintf("entry was triggered recursively by previously active entry %q", parent),
			Summary:   "Triggered by another entry",
			Evidence:  domain.Evidence{SourceEntryID: parent},
		}
	}
	return nil
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}
