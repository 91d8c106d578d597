// Package research defines the web-research read model: what a
// provider search returns and what the service distills from it.
package research

// Hit is one raw web search result.
type Hit struct {
	Title       string
	Link        string
	Snippet     string
	DisplayLink string
}

// WebInfo is the distilled research outcome for one company. Nil
// fields mean nothing credible was found; Confidence is the best
// relevance seen across the raw hits, capped at 1.0.
type WebInfo struct {
	Website    *string
	Contacts   *string
	Confidence float64
	Query      string
}
