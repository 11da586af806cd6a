package hierarchy

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"treepress/internal/models"
)

// article builds a test article. parent may be uuid.Nil for none.
func article(id uuid.UUID, title, category string, parent uuid.UUID, created time.Time) models.Article {
	a := models.Article{
		ID:        id,
		Title:     title,
		Slug:      title,
		Status:    models.ArticleStatusDraft,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if category != "" {
		a.Category = &category
	}
	if parent != uuid.Nil {
		a.ParentID = &parent
	}
	return a
}

func TestBuildRootTreeNestsChildren(t *testing.T) {
	now := time.Now()
	parentID := uuid.New()
	childID := uuid.New()

	records := []models.Article{
		article(parentID, "parent", "News", uuid.Nil, now),
		article(childID, "child", "News", parentID, now),
	}

	roots, _ := BuildRootTree(records)

	if len(roots) != 1 {
		t.Fatalf("roots: got %d, want 1", len(roots))
	}
	if roots[0].ID != parentID {
		t.Errorf("root: got %s, want %s", roots[0].ID, parentID)
	}
	if len(roots[0].Children) != 1 {
		t.Fatalf("children: got %d, want 1", len(roots[0].Children))
	}
	if roots[0].Children[0].ID != childID {
		t.Errorf("child: got %s, want %s", roots[0].Children[0].ID, childID)
	}
	if len(roots[0].Children[0].Children) != 0 {
		t.Errorf("grandchildren: got %d, want 0", len(roots[0].Children[0].Children))
	}
}

func TestBuildRootTreeDanglingParentBecomesRoot(t *testing.T) {
	id := uuid.New()
	records := []models.Article{
		article(id, "orphan", "", uuid.New(), time.Now()),
	}

	roots, _ := BuildRootTree(records)

	if len(roots) != 1 {
		t.Fatalf("roots: got %d, want 1", len(roots))
	}
	if roots[0].ID != id {
		t.Errorf("root: got %s, want %s", roots[0].ID, id)
	}
	if roots[0].Children == nil {
		t.Error("children must be non-nil")
	}
}

// Every record must land in exactly one position: as a root or under
// exactly one parent.
func TestBuildRootTreePlacesEveryRecordOnce(t *testing.T) {
	now := time.Now()
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	records := []models.Article{
		article(a, "a", "News", uuid.Nil, now),
		article(b, "b", "News", a, now),
		article(c, "c", "Guides", b, now),
		article(d, "d", "", uuid.New(), now), // dangling parent
	}

	roots, _ := BuildRootTree(records)

	seen := make(map[uuid.UUID]int)
	Walk(roots, func(n *TreeNode) { seen[n.ID]++ })

	if len(seen) != len(records) {
		t.Fatalf("placed: got %d distinct, want %d", len(seen), len(records))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("node %s placed %d times, want 1", id, count)
		}
	}
	if got := CountNodes(roots); got != len(records) {
		t.Errorf("CountNodes: got %d, want %d", got, len(records))
	}
}

func TestBuildRootTreeRebuildIsStable(t *testing.T) {
	now := time.Now()
	a, b := uuid.New(), uuid.New()
	records := []models.Article{
		article(a, "a", "News", uuid.Nil, now),
		article(b, "b", "News", a, now),
	}

	first, _ := BuildRootTree(records)
	second, _ := BuildRootTree(records)

	var firstOrder, secondOrder []uuid.UUID
	Walk(first, func(n *TreeNode) { firstOrder = append(firstOrder, n.ID) })
	Walk(second, func(n *TreeNode) { secondOrder = append(secondOrder, n.ID) })

	if len(firstOrder) != len(secondOrder) {
		t.Fatalf("node counts differ: %d vs %d", len(firstOrder), len(secondOrder))
	}
	for i := range firstOrder {
		if firstOrder[i] != secondOrder[i] {
			t.Errorf("position %d: %s vs %s", i, firstOrder[i], secondOrder[i])
		}
	}
}

func TestBuildRootTreeCollectsCategories(t *testing.T) {
	now := time.Now()
	records := []models.Article{
		article(uuid.New(), "a", "News", uuid.Nil, now),
		article(uuid.New(), "b", "Guides", uuid.Nil, now),
		article(uuid.New(), "c", "News", uuid.Nil, now),
		article(uuid.New(), "d", "", uuid.Nil, now),
	}

	_, categories := BuildRootTree(records)

	want := []string{"News", "Guides"}
	if len(categories) != len(want) {
		t.Fatalf("categories: got %v, want %v", categories, want)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("category %d: got %q, want %q", i, categories[i], want[i])
		}
	}
}

func TestBuildRootTreeBreaksParentCycles(t *testing.T) {
	now := time.Now()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	records := []models.Article{
		article(a, "a", "", b, now), // a -> b -> a
		article(b, "b", "", a, now),
		article(c, "c", "", a, now), // hangs off the cycle
	}

	roots, _ := BuildRootTree(records)

	if got := CountNodes(roots); got != 3 {
		t.Fatalf("CountNodes: got %d, want 3", got)
	}

	// Both cycle members surface as roots; c stays attached under a.
	rootIDs := make(map[uuid.UUID]bool)
	for _, r := range roots {
		rootIDs[r.ID] = true
	}
	if !rootIDs[a] || !rootIDs[b] {
		t.Errorf("cycle members not reclassified as roots: %v", rootIDs)
	}
	if rootIDs[c] {
		t.Error("c should remain a child of a")
	}
}

func TestBuildRootTreeSelfParent(t *testing.T) {
	id := uuid.New()
	records := []models.Article{
		article(id, "selfie", "", id, time.Now()),
	}

	roots, _ := BuildRootTree(records)

	if len(roots) != 1 || roots[0].ID != id {
		t.Fatalf("self-parented article must become a root, got %d roots", len(roots))
	}
	if len(roots[0].Children) != 0 {
		t.Errorf("self edge must be dropped, got %d children", len(roots[0].Children))
	}
}

func TestBuildRootTreeEmptyInput(t *testing.T) {
	roots, categories := BuildRootTree(nil)
	if len(roots) != 0 {
		t.Errorf("roots: got %d, want 0", len(roots))
	}
	if len(categories) != 0 {
		t.Errorf("categories: got %d, want 0", len(categories))
	}
}
