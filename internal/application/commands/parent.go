package commands

import "docbridge/internal/domain"

// ResolveParent maps a file's directory segments under a sync target to a
// remote parent page id. Each segment is looked up by name; a hit becomes
// the current parent, a miss keeps the previous one (missing folder levels
// are not auto-created during upload). Returns the last resolved id, or
// fallback when no segment ever matched.
//
// The lookup deliberately spans the whole forest rather than the current
// parent's subtree, so a folder named like an unrelated page elsewhere in
// the doc can mis-resolve parentage. This is a known limitation kept for
// compatibility; scoping the search would change placements for existing
// setups.
func ResolveParent(segments []string, forest []*domain.PageNode, fallback string) string {
	parent := fallback
	for _, seg := range segments {
		if n := domain.FindByName(seg, forest); n != nil {
			parent = n.ID
		}
	}
	return parent
}
