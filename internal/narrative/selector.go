package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aurorastack/insight-engine/internal/metrics"
	"github.com/aurorastack/insight-engine/internal/models"
)

const (
	// SourceCollaborator marks narratives produced by the live generator.
	SourceCollaborator = "collaborator"
	// SourceTemplate marks narratives produced from canned templates.
	SourceTemplate = "template"

	// TierLite requests bypass the live generator entirely.
	TierLite = "lite"
)

// Selector turns an analysis result into narrative text. It prefers the
// live generator when one is configured and the request tier allows it,
// and falls back to deterministic templates on any generator failure.
type Selector struct {
	logger    *slog.Logger
	pack      *TemplatePack
	generator TextGenerator
}

// NewSelector builds a Selector. pack and generator may both be nil;
// a nil generator means templates only.
func NewSelector(logger *slog.Logger, pack *TemplatePack, generator TextGenerator) *Selector {
	return &Selector{logger: logger, pack: pack, generator: generator}
}

// Explain produces a narrative for result in the requested family.
// It never returns an empty narrative: if the live generator is
// unavailable the template fallback is used silently.
func (s *Selector) Explain(ctx context.Context, result *models.AnalysisResult, family models.NarrativeFamily, tier string) models.Narrative {
	tpl, values := s.resolve(result, family)

	if s.generator != nil && tier != TierLite {
		text, err := s.generator.Invoke(ctx, systemPrompt(family), userPrompt(result, family))
		if err == nil {
			narrative := models.Narrative{
				Headline: interpolate(tpl.Headline, values),
				Detail:   text,
				Source:   SourceCollaborator,
			}
			s.fillMirror(&narrative, tpl, values, family)
			return narrative
		}
		metrics.IncNarrativeFallback()
		s.logger.Warn("narrative generator unavailable, using template fallback",
			"family", family, "error", err)
	}

	narrative := models.Narrative{
		Headline: interpolate(tpl.Headline, values),
		Detail:   interpolate(tpl.Detail, values),
		Source:   SourceTemplate,
	}
	s.fillMirror(&narrative, tpl, values, family)
	return narrative
}

func (s *Selector) fillMirror(n *models.Narrative, tpl Template, values map[string]string, family models.NarrativeFamily) {
	if family != models.FamilyMirror {
		return
	}
	n.Summary = interpolate(tpl.Summary, values)
	n.TopDialog = interpolate(tpl.TopDialog, values)
}

// resolve picks the template for the result's correlation band, preferring
// a loaded pack entry over the built-in, and computes interpolation values.
func (s *Selector) resolve(result *models.AnalysisResult, family models.NarrativeFamily) (Template, map[string]string) {
	lad, ok := ladders[family]
	if !ok {
		family = models.FamilyDefault
		lad = ladders[family]
	}
	band := lad.band(result.FocusCorrelation())

	tpl, ok := s.pack.lookup(family, band)
	if !ok {
		tpl = builtinTemplates[family][band]
	}
	return tpl, interpolationValues(result)
}

func interpolationValues(result *models.AnalysisResult) map[string]string {
	values := map[string]string{
		"corr":    formatFloat(result.FocusCorrelation()),
		"records": strconv.Itoa(result.TotalRecords),
	}
	if len(result.Bucketed) > 0 {
		buckets := result.Bucketed[0].Buckets
		low, high := result.CompareBuckets[0], result.CompareBuckets[1]
		values["low_bucket"] = low
		values["high_bucket"] = high
		if stats, ok := buckets[low]; ok {
			values["low_mean"] = formatFloat(stats.Mean)
		}
		if stats, ok := buckets[high]; ok {
			values["high_mean"] = formatFloat(stats.Mean)
		}
	}
	if result.CoordinationScore != nil {
		values["score"] = formatFloat(*result.CoordinationScore)
	}
	return values
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func systemPrompt(family models.NarrativeFamily) string {
	switch family {
	case models.FamilyWarm:
		return "You are a warm, encouraging wellness companion. Explain biometric findings in plain, supportive language. Never give medical advice."
	case models.FamilyProfessional:
		return "You are a clinical data analyst. Explain biometric findings precisely and conservatively, citing the numbers. Never give medical advice."
	case models.FamilyMirror:
		return "You are a reflective wellness coach. Explain how the user's stress and recovery mirrored each other this week, citing the numbers. Never give medical advice."
	default:
		return "You are a wellness data assistant. Explain biometric findings clearly and factually. Never give medical advice."
	}
}

func userPrompt(result *models.AnalysisResult, family models.NarrativeFamily) string {
	prompt := fmt.Sprintf("Dataset %q, %d records. Focus correlation %s: %s.",
		result.Dataset, result.TotalRecords, result.FocusPair, formatFloat(result.FocusCorrelation()))
	for _, insight := range result.Insights {
		prompt += " " + insight + "."
	}
	if result.CoordinationScore != nil {
		prompt += fmt.Sprintf(" Coordination score %s.", formatFloat(*result.CoordinationScore))
	}
	prompt += fmt.Sprintf(" Write a short narrative in the %q voice.", family)
	return prompt
}
