package core

// =============================================================================
// KindInfo
// =============================================================================

// KindInfo provides metadata about a diagnostic kind for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type KindInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Group       string   `json:"group"` // "static", "runtime" or "config"
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	// PolicyGoverned is false for kinds that fail regardless of the throw option.
	PolicyGoverned bool `json:"policy_governed"`

	// Documentation fields
	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}
