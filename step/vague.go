package step

import "strings"

// VagueMatcher decides whether a query is too vague to search verbatim and
// needs grounding in the recent conversation ("something else", "cheaper",
// and their Arabic equivalents). Patterns are matched case-insensitively as
// substrings, so the set stays trivially extensible and localizable.
type VagueMatcher struct {
	patterns []string
}

// NewVagueMatcher creates a matcher over the given patterns. Patterns are
// lowercased once at construction.
func NewVagueMatcher(patterns ...string) *VagueMatcher {
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		lowered = append(lowered, strings.ToLower(p))
	}
	return &VagueMatcher{patterns: lowered}
}

// DefaultVagueMatcher returns the built-in bilingual (English and Egyptian
// Arabic) pattern set covering "alternatives", "more options" and "lower
// price" phrasings.
func DefaultVagueMatcher() *VagueMatcher {
	return NewVagueMatcher(
		"something else", "another one", "show me more", "different",
		"other options", "more choices", "alternatives", "similar",
		"cheaper",
		"غير كده", "تانية", "غيرها", "اختيارات اكتر", "اختيارات تانية",
		"حاجة تانية", "الحاجات الشبيهة", "منتجات مشابهة", "مختلف",
		"خيارات اكتر", "اختيار ثاني", "منتج تاني", "موديل تاني",
		"مفيش سعر اقل", "سعر اقل", "اقل من كده", "اقل من ذلك",
	)
}

// Match reports whether the query contains any of the configured patterns.
func (m *VagueMatcher) Match(query string) bool {
	lowered := strings.ToLower(query)
	for _, p := range m.patterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}
