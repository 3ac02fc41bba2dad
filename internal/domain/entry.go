package domain

// SelectiveLogic is the boolean combination mode applied to an entry's
// secondary keys once a primary key has matched.
type SelectiveLogic int

const (
	LogicAndAny SelectiveLogic = 0 // at least one secondary key matches
	LogicAndAll SelectiveLogic = 1 // every secondary key matches
	LogicNotAny SelectiveLogic = 2 // no secondary key matches
	LogicNotAll SelectiveLogic = 3 // at least one secondary key fails
)

func (l SelectiveLogic) String() string {
	switch l {
	case LogicAndAny:
		return "AND_ANY"
	case LogicAndAll:
		return "AND_ALL"
	case LogicNotAny:
		return "NOT_ANY"
	case LogicNotAll:
		return "NOT_ALL"
	}
	return "AND_ANY"
}

func ValidSelectiveLogic(l int) bool {
	return l >= int(LogicAndAny) && l <= int(LogicNotAll)
}

// Decorator tokens carried inline on an entry. DecoratorActivate forces the
// entry into the prompt; DecoratorSuppress keeps it out regardless of any
// other flag.
const (
	DecoratorActivate = "@@activate"
	DecoratorSuppress = "@@dont_activate"
)

// LoreEntry is a unit of contextual text with activation rules, supplied
// pre-selected by the external retrieval subsystem. Read-only within a
// generation cycle; the engine never mutates it.
type LoreEntry struct {
	ID    string `json:"id"`
	World string `json:"world,omitempty"` // owning collection identifier

	Keys          []string `json:"keys"`
	SecondaryKeys []string `json:"secondary_keys,omitempty"`

	Constant        bool           `json:"constant,omitempty"`
	Vectorized      bool           `json:"vectorized,omitempty"`
	Selective       bool           `json:"selective,omitempty"`
	SelectiveLogic  SelectiveLogic `json:"selective_logic,omitempty"`
	Sticky          int            `json:"sticky,omitempty"`
	StickyRemaining int            `json:"sticky_remaining,omitempty"`

	Decorators []string `json:"decorators,omitempty"`

	// Global-context match flags: the external scanner also searches these
	// fields of the surrounding character/persona setup, not just chat text.
	MatchPersonaDescription   bool `json:"match_persona_description,omitempty"`
	MatchCharacterDescription bool `json:"match_character_description,omitempty"`
	MatchCharacterPersonality bool `json:"match_character_personality,omitempty"`
	MatchCharacterDepthPrompt bool `json:"match_character_depth_prompt,omitempty"`
	MatchScenario             bool `json:"match_scenario,omitempty"`
	MatchCreatorNotes         bool `json:"match_creator_notes,omitempty"`

	CaseSensitive   bool `json:"case_sensitive,omitempty"`
	MatchWholeWords bool `json:"match_whole_words,omitempty"`

	// ScanDepth overrides the message-window size for this entry alone.
	// Zero means unset.
	ScanDepth int `json:"scan_depth,omitempty"`

	Content string   `json:"content,omitempty"`
	Comment string   `json:"comment,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	Probability    int  `json:"probability,omitempty"` // 0-100
	UseProbability bool `json:"use_probability,omitempty"`
}

// HasGlobalContextMatch reports whether any global-context flag is set.
func (e *LoreEntry) HasGlobalContextMatch() bool {
	return e.MatchPersonaDescription || e.MatchCharacterDescription ||
		e.MatchCharacterPersonality || e.MatchCharacterDepthPrompt ||
		e.MatchScenario || e.MatchCreatorNotes
}

// GlobalContextFields returns the names of the global-context fields this
// entry is configured to match against, in a fixed order.
func (e *LoreEntry) GlobalContextFields() []string {
	var fields []string
	if e.MatchPersonaDescription {
		fields = append(fields, "persona_description")
	}
	if e.MatchCharacterDescription {
		fields = append(fields, "character_description")
	}
	if e.MatchCharacterPersonality {
		fields = append(fields, "character_personality")
	}
	if e.MatchCharacterDepthPrompt {
		fields = append(fields, "character_depth_prompt")
	}
	if e.MatchScenario {
		fields = append(fields, "scenario")
	}
	if e.MatchCreatorNotes {
		fields = append(fields, "creator_notes")
	}
	return fields
}

// HasDecorator reports whether the entry carries the given decorator token.
func (e *LoreEntry) HasDecorator(token string) bool {
	for _, d := range e.Decorators {
		if d == token {
			return true
		}
	}
	return false
}

// HasTag reports whether the entry carries the given tag (exact match).
func (e *LoreEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
