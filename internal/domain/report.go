package domain

import "time"

// Mechanism identifies which activation path explains an entry's selection.
// Exactly one mechanism is assigned per entry per cycle.
type Mechanism string

const (
	MechanismForced        Mechanism = "forced_decorator"
	MechanismSuppressed    Mechanism = "suppressed"
	MechanismConstant      Mechanism = "constant"
	MechanismVectorized    Mechanism = "vectorized"
	MechanismSticky        Mechanism = "sticky"
	MechanismGlobalContext Mechanism = "global_context"
	MechanismCollection    Mechanism = "collection"
	MechanismKeyword       Mechanism = "keyword_match"
	MechanismCrossEntry    Mechanism = "cross_entry"
	MechanismUnknown       Mechanism = "unknown"
)

func ValidMechanism(m string) bool {
	switch Mechanism(m) {
	case MechanismForced, MechanismSuppressed, MechanismConstant,
		MechanismVectorized, MechanismSticky, MechanismGlobalContext,
		MechanismCollection, MechanismKeyword, MechanismCrossEntry,
		MechanismUnknown:
		return true
	}
	return false
}

// Evidence carries the structured facts backing an attribution.
type Evidence struct {
	MatchedKeys          []string `json:"matched_keys,omitempty"`
	MatchedSecondaryKeys []string `json:"matched_secondary_keys,omitempty"`
	SecondaryLogic       string   `json:"secondary_logic,omitempty"`
	TriggeringMessages   []string `json:"triggering_messages,omitempty"`
	ContextFields        []string `json:"context_fields,omitempty"`
	Decorator            string   `json:"decorator,omitempty"`
	ActivationSource     string   `json:"activation_source,omitempty"`
	Collection           string   `json:"collection,omitempty"`
	CollectionKind       string   `json:"collection_kind,omitempty"`
	SourceEntryID        string   `json:"source_entry_id,omitempty"`
	StickyRemaining      int      `json:"sticky_remaining,omitempty"`
	ScanDepth            int      `json:"scan_depth,omitempty"`
	ProbabilityNote      string   `json:"probability_note,omitempty"`
	SimilarityScore      *float64 `json:"similarity_score,omitempty"`
	Truncated            bool     `json:"truncated,omitempty"`
	TruncationNote       string   `json:"truncation_note,omitempty"`
}

// AttributionReport is the engine's structured explanation of why a single
// entry was selected during a generation cycle.
type AttributionReport struct {
	CycleID        string    `json:"cycle_id,omitempty"`
	EntryID        string    `json:"entry_id"`
	World          string    `json:"world,omitempty"`
	Mechanism      Mechanism `json:"mechanism"`
	Reason         string    `json:"reason"`
	Summary        string    `json:"summary"`
	Evidence       Evidence  `json:"evidence"`
	Category       Category  `json:"category"`
	HighConfidence bool      `json:"high_confidence"`
	CreatedAt      time.Time `json:"created_at"`
}
