package analyzer

import "fmt"

const truncationMarker = "\n\n... [diff truncated: showing %d of %d characters]"

// TruncateDiff cuts diff to budget characters and appends a visible marker.
// A diff within the budget is returned unchanged.
func TruncateDiff(diff string, budget int) string {
	if budget <= 0 || len(diff) <= budget {
		return diff
	}
	r := []rune(diff)
	if len(r) <= budget {
		return diff
	}
	return string(r[:budget]) + fmt.Sprintf(truncationMarker, budget, len(r))
}
