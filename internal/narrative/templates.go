package narrative

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aurorastack/insight-engine/internal/models"
)

// Band names the rungs of the correlation threshold ladder.
type Band string

const (
	BandStrongInverse   Band = "strong_inverse"
	BandModerateInverse Band = "moderate_inverse"
	BandParadoxical     Band = "paradoxical"
	BandWeak            Band = "weak"
)

// ladder holds the per-family thresholds on the focus-pair correlation.
type ladder struct {
	strong   float64
	moderate float64
	positive float64
}

func (l ladder) band(r float64) Band {
	switch {
	case r < l.strong:
		return BandStrongInverse
	case r < l.moderate:
		return BandModerateInverse
	case r > l.positive:
		return BandParadoxical
	default:
		return BandWeak
	}
}

var ladders = map[models.NarrativeFamily]ladder{
	models.FamilyDefault:      {strong: -0.5, moderate: -0.3, positive: 0.3},
	models.FamilyWarm:         {strong: -0.45, moderate: -0.25, positive: 0.25},
	models.FamilyProfessional: {strong: -0.6, moderate: -0.35, positive: 0.35},
	models.FamilyMirror:       {strong: -0.5, moderate: -0.3, positive: 0.3},
}

// Template is one canned explanation. Detail paragraphs are separated by
// blank lines; placeholders are replaced with computed numbers verbatim.
type Template struct {
	Headline  string `yaml:"headline"`
	Detail    string `yaml:"detail"`
	Summary   string `yaml:"summary"`
	TopDialog string `yaml:"top_dialog"`
}

// TemplatePack is the YAML root structure for template overrides.
type TemplatePack struct {
	Families map[string]map[string]Template `yaml:"families"`
}

// LoadTemplatePack loads template overrides from path. A missing file or an
// empty path yields a nil pack, which means built-ins only.
func LoadTemplatePack(path string) (*TemplatePack, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var pack TemplatePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse template pack: %w", err)
	}
	return &pack, nil
}

func (p *TemplatePack) lookup(family models.NarrativeFamily, band Band) (Template, bool) {
	if p == nil {
		return Template{}, false
	}
	bands, ok := p.Families[string(family)]
	if !ok {
		return Template{}, false
	}
	tpl, ok := bands[string(band)]
	return tpl, ok
}

// interpolate substitutes the computed numbers into a template string.
func interpolate(text string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for token, value := range values {
		pairs = append(pairs, "{{"+token+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

var builtinTemplates = map[models.NarrativeFamily]map[Band]Template{
	models.FamilyDefault: {
		BandStrongInverse: {
			Headline: "Your recovery metric and stress move in strong opposition: the correlation across {{records}} records is {{corr}}.",
			Detail: "Higher stress readings consistently line up with lower recovery values. The {{low_bucket}} group averages {{low_mean}}, while the {{high_bucket}} group sits at {{high_mean}}.\n\n" +
				"A relationship this pronounced usually reflects a genuine physiological pattern rather than noise. Keeping stress in the lower band should translate directly into better recovery readings.",
		},
		BandModerateInverse: {
			Headline: "There is a moderate inverse relationship ({{corr}}) between your recovery metric and stress.",
			Detail: "The trend is visible but not absolute: the {{low_bucket}} group averages {{low_mean}} against {{high_mean}} for the {{high_bucket}} group.\n\n" +
				"Other factors are clearly contributing, so treat stress as one lever among several.",
		},
		BandParadoxical: {
			Headline: "Unusually, your recovery metric rises with stress (correlation {{corr}}).",
			Detail: "Across {{records}} records the two move together, which is the opposite of the textbook pattern.\n\n" +
				"Short measurement windows or acute-versus-chronic stress differences often explain this. More data would firm up the picture.",
		},
		BandWeak: {
			Headline: "The link between your recovery metric and stress is weak ({{corr}}) in this sample.",
			Detail: "Group means are close: {{low_mean}} for {{low_bucket}} versus {{high_mean}} for {{high_bucket}}.\n\n" +
				"With {{records}} records the signal may simply be confounded; no strong conclusion is warranted yet.",
		},
	},
	models.FamilyWarm: {
		BandStrongInverse: {
			Headline: "Your body is telling a clear story: when stress climbs, recovery dips — the two track at {{corr}}.",
			Detail: "On your calmer days ({{low_bucket}}), your average reading is {{low_mean}}. On the tougher ones ({{high_bucket}}), it drops to {{high_mean}}. That gap is real, and it is worth being kind to yourself about it.\n\n" +
				"The encouraging part: because the link is so strong, every bit of stress you shed should show up in your numbers quickly.",
		},
		BandModerateInverse: {
			Headline: "Stress seems to nudge your recovery down a little ({{corr}}), though it is not the whole story.",
			Detail: "Your {{low_bucket}} days average {{low_mean}} and your {{high_bucket}} days {{high_mean}} — a gentle slope, not a cliff.\n\n" +
				"Sleep, movement, and timing likely matter just as much here. No cause for worry.",
		},
		BandParadoxical: {
			Headline: "Here is a surprise: your numbers actually rise alongside stress ({{corr}}).",
			Detail: "That is not the usual pattern, and it is nothing to be alarmed about — short bursts of good stress can do this.\n\n" +
				"Keep logging; {{records}} records is a start, and the picture will settle with more.",
		},
		BandWeak: {
			Headline: "Good news of a quiet kind: stress is not strongly driving your readings ({{corr}}).",
			Detail: "Your {{low_bucket}} and {{high_bucket}} averages ({{low_mean}} vs {{high_mean}}) are close together.\n\n" +
				"Whatever you are doing to buffer stress appears to be working.",
		},
	},
	models.FamilyProfessional: {
		BandStrongInverse: {
			Headline: "A strong inverse association (r = {{corr}}, n = {{records}}) was observed between the recovery metric and stress.",
			Detail: "Stratified means diverge markedly: {{low_mean}} in the {{low_bucket}} stratum versus {{high_mean}} in the {{high_bucket}} stratum. The magnitude of r places this well beyond the conventional 0.3 screening threshold.\n\n" +
				"The direction and size of the effect are consistent with autonomic down-regulation under sustained sympathetic load. Descriptive statistics only; no causal claim is made.",
		},
		BandModerateInverse: {
			Headline: "A moderate inverse association (r = {{corr}}) was observed between the recovery metric and stress.",
			Detail: "Stratum means: {{low_mean}} ({{low_bucket}}) versus {{high_mean}} ({{high_bucket}}). The association survives the screening threshold but explains a minority of the variance.\n\n" +
				"Residual variance likely reflects unmodelled covariates such as sleep architecture and circadian phase.",
		},
		BandParadoxical: {
			Headline: "A positive association (r = {{corr}}) was observed, contrary to the expected inverse relationship.",
			Detail: "With n = {{records}}, sampling variability cannot be excluded. Stratum means are {{low_mean}} ({{low_bucket}}) and {{high_mean}} ({{high_bucket}}).\n\n" +
				"Hormetic responses to acute stressors are a documented mechanism for sign reversal in short observation windows.",
		},
		BandWeak: {
			Headline: "No meaningful association (r = {{corr}}) was detected between the recovery metric and stress.",
			Detail: "Stratum means are statistically indistinguishable at this sample size: {{low_mean}} versus {{high_mean}}.\n\n" +
				"The estimate is likely confounded; a larger sample is required before interpretation.",
		},
	},
	models.FamilyMirror: {
		BandStrongInverse: {
			Headline:  "Your week shows a tightly coupled system: stress up, recovery down, correlation {{corr}}.",
			Summary:   "Stress and recovery are mirroring each other almost perfectly this week ({{corr}}).",
			TopDialog: "Your coordination score is {{score}} — your body is answering stress in real time.",
			Detail: "Day by day, the pattern repeats: {{low_bucket}}-stress sessions average {{low_mean}}, {{high_bucket}}-stress sessions {{high_mean}}. The mirror is clean.\n\n" +
				"A system this responsive recovers fast when load drops. Protect one low-stress block per day and watch the trend line answer.",
		},
		BandModerateInverse: {
			Headline:  "Stress is shaping your recovery, but the mirror has some haze: correlation {{corr}}.",
			Summary:   "A moderate inverse pattern ({{corr}}) links your stress and recovery this week.",
			TopDialog: "Coordination score {{score}} — a steady baseline with room to tune.",
			Detail: "Your {{low_bucket}}-stress sessions average {{low_mean}} against {{high_mean}} under {{high_bucket}} stress.\n\n" +
				"The coupling is real but partial; sleep quality and breathing rate carry part of the signal.",
		},
		BandParadoxical: {
			Headline:  "The mirror inverted this week: recovery rose with stress (correlation {{corr}}).",
			Summary:   "An unusual positive coupling ({{corr}}) appeared between stress and recovery.",
			TopDialog: "Coordination score {{score}} — an unusual week, worth a closer look.",
			Detail: "Across {{records}} sessions the two climbed together. Acute, short-lived stress can do this.\n\n" +
				"If the inversion persists beyond a week, it stops being noise and becomes a pattern worth investigating.",
		},
		BandWeak: {
			Headline:  "Stress and recovery barely spoke to each other this week (correlation {{corr}}).",
			Summary:   "No strong coupling ({{corr}}) between stress and recovery appeared this week.",
			TopDialog: "Coordination score {{score}} — decoupled and steady.",
			Detail: "Session means sit close together: {{low_mean}} versus {{high_mean}}.\n\n" +
				"A decoupled week is often a resilient one. The trend series below tells the day-by-day story.",
		},
	},
}
