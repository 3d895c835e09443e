package types

import "encoding/json"

// Extensions holds arbitrary JSON values for forward compatibility.
// Fields a reading binary does not understand round-trip through
// serialize/deserialize without loss, so newer writers can attach data
// that older readers preserve.
type Extensions map[string]json.RawMessage

// NewExtensions creates an empty extension map.
func NewExtensions() Extensions {
	return Extensions{}
}

// IsEmpty reports whether no extension fields are set.
func (e Extensions) IsEmpty() bool {
	return len(e) == 0
}

// Get returns the raw value for key, or nil if unset.
func (e Extensions) Get(key string) json.RawMessage {
	return e[key]
}

// GetAs unmarshals the value for key into out. Returns false if the key
// is unset or the value does not decode into out.
func (e Extensions) GetAs(key string, out any) bool {
	raw, ok := e[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// Set stores value under key. Values that fail to marshal are dropped.
func (e Extensions) Set(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	e[key] = raw
}

// Remove deletes key and returns its previous raw value, if any.
func (e Extensions) Remove(key string) json.RawMessage {
	raw := e[key]
	delete(e, key)
	return raw
}

// v1.1 convenience accessors.

const (
	extSuggestedFix   = "suggested_fix"
	extRelatedReviews = "related_reviews"
)

// SuggestedFix returns the v1.1 suggested-fix extension, or "" if unset.
func (e Extensions) SuggestedFix() string {
	var fix string
	if e.GetAs(extSuggestedFix, &fix) {
		return fix
	}
	return ""
}

// SetSuggestedFix stores the v1.1 suggested-fix extension.
func (e Extensions) SetSuggestedFix(fix string) {
	e.Set(extSuggestedFix, fix)
}

// RelatedReviews returns the v1.1 related-reviews extension, or nil.
func (e Extensions) RelatedReviews() []string {
	var reviews []string
	if e.GetAs(extRelatedReviews, &reviews) {
		return reviews
	}
	return nil
}

// SetRelatedReviews stores the v1.1 related-reviews extension.
func (e Extensions) SetRelatedReviews(reviews []string) {
	e.Set(extRelatedReviews, reviews)
}
