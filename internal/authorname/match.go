package authorname

import "strings"

// Matches reports whether a remote display name plausibly denotes this
// key: the folded last name must occur as a substring of the folded
// remote name, and the first initial (when known) must too.
//
// Substring containment, not token equality, is deliberate: it
// tolerates middle names, hyphenation, and name-order variance in
// remote records. The accepted trade-off is occasional false positives
// for short last names or common initials embedded in longer surnames.
func (k Key) Matches(remoteDisplay string) bool {
	if k.Last == "" {
		return false
	}
	r := Fold(remoteDisplay)
	if !strings.Contains(r, k.Last) {
		return false
	}
	return k.Initial == "" || strings.Contains(r, k.Initial)
}
