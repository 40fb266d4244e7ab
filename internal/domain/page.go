package domain

// RemotePage is a snapshot of one page as returned by the Doc service.
// Pages are re-fetched every sync pass and never mutated locally.
type RemotePage struct {
	ID       string
	Name     string
	ParentID string // empty means root
}

// PageNode is a RemotePage with its resolved children. The forest is
// derived in memory each pass and never persisted.
type PageNode struct {
	RemotePage
	Children []*PageNode
}

// BuildForest converts a flat page list into a parent-indexed forest.
// Pages arrive in arbitrary order with forward references to parents, so
// this runs two passes: first one node per page keyed by id, then each
// node whose parent id is present in the map is attached to that parent;
// everything else becomes a root. Roots and per-parent children preserve
// the input order.
//
// The second return value lists ids of pages that claimed a parent absent
// from the batch. They are demoted to roots (first encounter wins, no
// further cycle detection); callers may want to surface them as a warning.
func BuildForest(pages []RemotePage) ([]*PageNode, []string) {
	nodes := make(map[string]*PageNode, len(pages))
	order := make([]*PageNode, 0, len(pages))
	for _, p := range pages {
		if _, dup := nodes[p.ID]; dup {
			continue
		}
		n := &PageNode{RemotePage: p}
		nodes[p.ID] = n
		order = append(order, n)
	}

	var roots []*PageNode
	var orphans []string
	for _, n := range order {
		if n.ParentID == "" {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[n.ParentID]
		if !ok || parent == n {
			orphans = append(orphans, n.ID)
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots, orphans
}

// FindByName searches the forest depth-first in pre-order for a page whose
// name exactly equals name (case-sensitive). First match wins; duplicate
// remote names are not disambiguated beyond mapping-table precedence.
func FindByName(name string, nodes []*PageNode) *PageNode {
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
		if found := FindByName(name, n.Children); found != nil {
			return found
		}
	}
	return nil
}

// FindByID searches the forest depth-first for a page id.
func FindByID(id string, nodes []*PageNode) *PageNode {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := FindByID(id, n.Children); found != nil {
			return found
		}
	}
	return nil
}

// Stats accumulates per-item outcomes across a sync pass. Recursion over a
// page subtree folds child stats into the parent's by addition.
type Stats struct {
	Success int
	Errors  int
}

// Add merges other into s.
func (s *Stats) Add(other Stats) {
	s.Success += other.Success
	s.Errors += other.Errors
}
