package models

// Mode is a caller-supplied operating preset. It changes dataset choice,
// which derived fields are computed, and narrative tone. Modes carry no
// persisted state.
type Mode string

const (
	// ModeDefault routes by query keywords alone.
	ModeDefault Mode = ""
	// ModeEnergy is the layered "mirror" preset: fixed hrv_stress dataset,
	// coordination score and trend series, hero metadata in the merged result.
	ModeEnergy Mode = "energy"
	// ModeLongevity is the professional preset over the cortisol/focus corpus.
	ModeLongevity Mode = "longevity"
	// ModeCompanion is the warm, narrative-leaning preset.
	ModeCompanion Mode = "companion"
)

// ParseMode validates a wire-level mode string.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeDefault, ModeEnergy, ModeLongevity, ModeCompanion:
		return Mode(s), true
	default:
		return ModeDefault, false
	}
}

// DerivedField names a mode-specific derived computation.
type DerivedField string

const (
	DerivedCoordination DerivedField = "coordination"
	DerivedTrend        DerivedField = "trend"
)

// DerivedSet is the set of derived fields a route requests.
type DerivedSet map[DerivedField]struct{}

// NewDerivedSet builds a set from its members.
func NewDerivedSet(fields ...DerivedField) DerivedSet {
	set := make(DerivedSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Has reports set membership; a nil set has no members.
func (s DerivedSet) Has(f DerivedField) bool {
	_, ok := s[f]
	return ok
}

// NarrativeFamily selects one of the fixed explanation template families.
type NarrativeFamily string

const (
	FamilyDefault      NarrativeFamily = "default"
	FamilyWarm         NarrativeFamily = "warm"
	FamilyProfessional NarrativeFamily = "professional"
	FamilyMirror       NarrativeFamily = "mirror"
)
