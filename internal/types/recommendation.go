package types

// Conditions holds the situational request fields. An empty string means the
// field was absent from the request; absent fields never contribute to
// scoring.
type Conditions struct {
	People   string `json:"people,omitempty"`
	Price    string `json:"price,omitempty"`
	Time     string `json:"time,omitempty"`
	Rain     string `json:"rain,omitempty"`
	Season   string `json:"season,omitempty"`
	Alcohol  string `json:"alcohol,omitempty"`
	Category string `json:"category,omitempty"`
}

func (c Conditions) IsEmpty() bool {
	return c == Conditions{}
}

// Map returns only the present fields, keyed by their wire names.
func (c Conditions) Map() map[string]string {
	out := map[string]string{}
	if c.People != "" {
		out["people"] = c.People
	}
	if c.Price != "" {
		out["price"] = c.Price
	}
	if c.Time != "" {
		out["time"] = c.Time
	}
	if c.Rain != "" {
		out["rain"] = c.Rain
	}
	if c.Season != "" {
		out["season"] = c.Season
	}
	if c.Alcohol != "" {
		out["alcohol"] = c.Alcohol
	}
	if c.Category != "" {
		out["category"] = c.Category
	}
	return out
}

// Candidate is a scored menu produced by one retrieval strategy. Provenance
// carries the evidence behind the score: tag names for the content strategy,
// the requester's own order history for the collaborative strategy.
type Candidate struct {
	Menu       string   `json:"menu"`
	Score      int      `json:"score"`
	Provenance []string `json:"provenance,omitempty"`
}

// Recommendation modes as reported to callers.
const (
	ModeTagSimilarity   = "tag-similarity"
	ModeUserSimilarity  = "user-similarity"
	ModeContextWeighted = "context-weighted"
	ModePopularity      = "popularity"
)

// Recommendation is the assembled result of one strategy run: ranked
// candidates, the provenance mode they were retrieved under, and the
// generated pitch. PitchError is set instead of failing the request when the
// generation service is unavailable after retrieval succeeded.
type Recommendation struct {
	Mode       string     `json:"type"`
	Message    string     `json:"message"`
	Candidates []Candidate `json:"candidates"`
	History    []string   `json:"history,omitempty"`
	Conditions Conditions `json:"conditions,omitempty"`
	Knowledge  []string   `json:"retrieved_knowledge,omitempty"`
	Pitch      string     `json:"llm_advice,omitempty"`
	PitchError string     `json:"pitch_error,omitempty"`
}

func (r Recommendation) MenuNames() []string {
	names := make([]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		names = append(names, c.Menu)
	}
	return names
}
