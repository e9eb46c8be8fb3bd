package domain

import "strings"

// OmissionRules is the ordered list of namespace prefixes excluded from
// generation, as read from the autoloader/omit configuration parameter.
type OmissionRules []string

// Omits reports whether the identifier matches any rule. Matching is a plain
// prefix test and short-circuits on the first hit; since the check is
// existence-only, rule order does not change the outcome.
func (r OmissionRules) Omits(identifier string) bool {
	for _, prefix := range r {
		if strings.HasPrefix(identifier, prefix) {
			return true
		}
	}
	return false
}
