package domain

import "testing"

func TestBuildForest_ForwardReferences(t *testing.T) {
	// Children arrive before their parents.
	pages := []RemotePage{
		{ID: "c1", Name: "Child", ParentID: "r1"},
		{ID: "r1", Name: "Root"},
		{ID: "c2", Name: "Other Child", ParentID: "r1"},
	}

	roots, orphans := BuildForest(pages)

	if len(orphans) != 0 {
		t.Errorf("expected no orphans, got %v", orphans)
	}
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if roots[0].ID != "r1" {
		t.Errorf("expected root r1, got %s", roots[0].ID)
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(roots[0].Children))
	}
	// Children preserve input page-list order.
	if roots[0].Children[0].ID != "c1" || roots[0].Children[1].ID != "c2" {
		t.Errorf("children out of order: %s, %s",
			roots[0].Children[0].ID, roots[0].Children[1].ID)
	}
}

func TestBuildForest_OrphanDemotedToRoot(t *testing.T) {
	pages := []RemotePage{
		{ID: "p1", Name: "A", ParentID: "missing"},
		{ID: "p2", Name: "B"},
	}

	roots, orphans := BuildForest(pages)

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != "p1" || roots[1].ID != "p2" {
		t.Errorf("roots out of order: %s, %s", roots[0].ID, roots[1].ID)
	}
	if len(orphans) != 1 || orphans[0] != "p1" {
		t.Errorf("expected orphan [p1], got %v", orphans)
	}
}

func TestBuildForest_TreeInvariant(t *testing.T) {
	// Every page appears exactly once: as a root when its parent is
	// absent or empty, otherwise in its parent's children list.
	pages := []RemotePage{
		{ID: "a", Name: "a"},
		{ID: "b", Name: "b", ParentID: "a"},
		{ID: "c", Name: "c", ParentID: "b"},
		{ID: "d", Name: "d", ParentID: "gone"},
	}

	roots, _ := BuildForest(pages)

	count := make(map[string]int)
	var walk func(nodes []*PageNode)
	walk = func(nodes []*PageNode) {
		for _, n := range nodes {
			count[n.ID]++
			if n.ParentID != "" {
				for _, child := range n.Children {
					if child.ParentID != n.ID {
						t.Errorf("child %s attached to wrong parent %s", child.ID, n.ID)
					}
				}
			}
			walk(n.Children)
		}
	}
	walk(roots)

	for _, p := range pages {
		if count[p.ID] != 1 {
			t.Errorf("page %s appears %d times, want 1", p.ID, count[p.ID])
		}
	}
}

func TestBuildForest_DuplicateIDFirstWins(t *testing.T) {
	pages := []RemotePage{
		{ID: "p1", Name: "First"},
		{ID: "p1", Name: "Second"},
	}

	roots, _ := BuildForest(pages)

	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if roots[0].Name != "First" {
		t.Errorf("expected first encounter to win, got %s", roots[0].Name)
	}
}

func TestBuildForest_SelfParent(t *testing.T) {
	pages := []RemotePage{{ID: "p1", Name: "Loop", ParentID: "p1"}}

	roots, orphans := BuildForest(pages)

	if len(roots) != 1 || roots[0].ID != "p1" {
		t.Fatalf("self-parented page should become a root")
	}
	if len(orphans) != 1 {
		t.Errorf("self-parented page should be reported as orphan")
	}
}

func TestFindByName_PreOrderFirstMatch(t *testing.T) {
	roots, _ := BuildForest([]RemotePage{
		{ID: "r1", Name: "Root"},
		{ID: "c1", Name: "Notes", ParentID: "r1"},
		{ID: "r2", Name: "Notes"},
	})

	found := FindByName("Notes", roots)
	if found == nil {
		t.Fatal("expected a match")
	}
	// Pre-order: the nested page under the first root is visited before
	// the second root.
	if found.ID != "c1" {
		t.Errorf("expected c1 (first in pre-order), got %s", found.ID)
	}
}

func TestFindByName_CaseSensitive(t *testing.T) {
	roots, _ := BuildForest([]RemotePage{{ID: "p1", Name: "Notes"}})

	if FindByName("notes", roots) != nil {
		t.Error("lookup must be case-sensitive")
	}
	if FindByName("Notes", roots) == nil {
		t.Error("exact match not found")
	}
}

func TestFindByID(t *testing.T) {
	roots, _ := BuildForest([]RemotePage{
		{ID: "r1", Name: "Root"},
		{ID: "c1", Name: "Child", ParentID: "r1"},
	})

	if n := FindByID("c1", roots); n == nil || n.Name != "Child" {
		t.Error("nested id not found")
	}
	if FindByID("nope", roots) != nil {
		t.Error("unexpected match for unknown id")
	}
}

func TestStats_Add(t *testing.T) {
	s := Stats{Success: 1, Errors: 2}
	s.Add(Stats{Success: 3, Errors: 4})
	if s.Success != 4 || s.Errors != 6 {
		t.Errorf("got %+v", s)
	}
}
