package models

// QueryRequest is the core's single input: a free-text query, an optional
// operating mode, and optional opaque caller context.
type QueryRequest struct {
	Query   string
	Mode    Mode
	Context map[string]string
}

// Tier returns the caller tier flag carried in the request context.
// An absent flag defaults to premium (the live generator may be consulted).
func (r QueryRequest) Tier() string {
	if r.Context == nil {
		return "premium"
	}
	if t, ok := r.Context["tier"]; ok && t != "" {
		return t
	}
	return "premium"
}

// Narrative is the selector's output: a one-paragraph headline and a
// multi-paragraph detail. Both are always non-empty.
type Narrative struct {
	Headline  string `json:"headline"`
	Detail    string `json:"detail"`
	Summary   string `json:"summary,omitempty"`
	TopDialog string `json:"top_dialog,omitempty"`
	Source    string `json:"source"`
}

// QueryResult is the orchestrator's merged output. Data is always present;
// Chart, Insight and Hero appear only when their collaborator ran.
type QueryResult struct {
	RequestID string            `json:"request_id"`
	Data      AnalysisResult    `json:"data"`
	Chart     *ChartView        `json:"chart,omitempty"`
	Insight   string            `json:"insight,omitempty"`
	Hero      map[string]string `json:"hero,omitempty"`
}
