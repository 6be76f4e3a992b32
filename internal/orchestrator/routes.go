package orchestrator

import (
	"strings"

	"github.com/aurorastack/insight-engine/internal/models"
)

// route is the declarative per-mode plan the orchestrator consults instead
// of branching on mode in every step.
type route struct {
	datasetOverride models.DatasetLabel
	derived         models.DerivedSet
	family          models.NarrativeFamily

	// fixed routes ignore query keywords and always run the listed
	// collaborators; the keyword detector decides for non-fixed routes.
	fixed        bool
	runChart     bool
	runNarrative bool
	mergeHero    bool
}

var routes = map[models.Mode]route{
	models.ModeDefault: {
		family: models.FamilyDefault,
	},
	models.ModeEnergy: {
		datasetOverride: models.DatasetHRVStress,
		derived:         models.NewDerivedSet(models.DerivedCoordination, models.DerivedTrend),
		family:          models.FamilyMirror,
		fixed:           true,
		runChart:        true,
		runNarrative:    true,
		mergeHero:       true,
	},
	models.ModeLongevity: {
		datasetOverride: models.DatasetCortisolFocus,
		family:          models.FamilyProfessional,
		fixed:           true,
		runChart:        true,
		runNarrative:    true,
	},
	models.ModeCompanion: {
		family:       models.FamilyWarm,
		fixed:        true,
		runNarrative: true,
	},
}

// Keyword families for query-driven routing. Matching is case-insensitive
// substring and the families are not mutually exclusive.
var (
	visualizeKeywords = []string{"chart", "plot", "graph", "visualize", "visualise", "show me"}
	explainKeywords   = []string{"explain", "why", "what does", "tell me", "insight", "narrative"}
	analyzeKeywords   = []string{"analyze", "analyse", "analysis", "statistics", "stats", "compare", "correlation"}
)

// detectCollaborators decides which optional collaborators a free-text query
// asks for. When no keyword family matches, every collaborator runs.
func detectCollaborators(query string) (runChart, runNarrative bool) {
	q := strings.ToLower(query)
	chart := matchesAny(q, visualizeKeywords)
	narrate := matchesAny(q, explainKeywords)
	analyze := matchesAny(q, analyzeKeywords)

	if !chart && !narrate && !analyze {
		return true, true
	}
	return chart, narrate
}

func matchesAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
