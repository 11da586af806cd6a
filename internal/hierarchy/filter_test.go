package hierarchy

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"treepress/internal/models"
)

func filterFixture() []models.Article {
	now := time.Now()
	published := func(a models.Article) models.Article {
		a.Status = models.ArticleStatusPublished
		return a
	}
	return []models.Article{
		published(article(uuid.New(), "Getting Started", "Guides", uuid.Nil, now)),
		article(uuid.New(), "Roadmap", "News", uuid.Nil, now),
		published(article(uuid.New(), "Release Notes", "News", uuid.Nil, now)),
	}
}

func TestFilterMatchesTitleSubstring(t *testing.T) {
	got := ApplyFilter(filterFixture(), TableFilter{Query: "started"})
	if len(got) != 1 || got[0].Title != "Getting Started" {
		t.Fatalf("got %d matches, want Getting Started only", len(got))
	}
}

func TestFilterMatchesContentSubstring(t *testing.T) {
	records := filterFixture()
	records[1].Content = "<p>The quarterly plan</p>"

	got := ApplyFilter(records, TableFilter{Query: "QUARTERLY"})
	if len(got) != 1 || got[0].Title != "Roadmap" {
		t.Fatalf("got %d matches, want Roadmap only", len(got))
	}
}

func TestFilterCombinesCategoryAndStatus(t *testing.T) {
	got := ApplyFilter(filterFixture(), TableFilter{Category: "News", Status: "published"})
	if len(got) != 1 || got[0].Title != "Release Notes" {
		t.Fatalf("got %v, want Release Notes only", got)
	}
}

func TestFilterAllPassesEverything(t *testing.T) {
	got := ApplyFilter(filterFixture(), TableFilter{Category: FilterAll, Status: FilterAll})
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
}

func TestFilterUncategorizedLabel(t *testing.T) {
	records := []models.Article{
		article(uuid.New(), "loose", "", uuid.Nil, time.Now()),
	}
	got := ApplyFilter(records, TableFilter{Category: models.UncategorizedLabel})
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
}

func TestPaginateZeroMatches(t *testing.T) {
	got := ApplyFilter(filterFixture(), TableFilter{Query: "foo", Status: "published"})
	page := Paginate(got, 1, 10)

	if page.TotalPages != 0 {
		t.Errorf("TotalPages: got %d, want 0", page.TotalPages)
	}
	if len(page.Items) != 0 {
		t.Errorf("Items: got %d, want 0", len(page.Items))
	}
	if page.Number != 1 {
		t.Errorf("Number: got %d, want 1", page.Number)
	}
}

func TestPaginateClampsOutOfRangePage(t *testing.T) {
	records := filterFixture()

	// Page 5 of a 3-item list with size 2 clamps to the last page.
	page := Paginate(records, 5, 2)
	if page.TotalPages != 2 {
		t.Fatalf("TotalPages: got %d, want 2", page.TotalPages)
	}
	if page.Number != 2 {
		t.Errorf("Number: got %d, want 2", page.Number)
	}
	if len(page.Items) != 1 {
		t.Errorf("Items: got %d, want 1", len(page.Items))
	}
}

func TestPaginateCeilingDivision(t *testing.T) {
	records := filterFixture()

	page := Paginate(records, 1, 2)
	if page.TotalPages != 2 {
		t.Errorf("TotalPages: got %d, want 2", page.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Errorf("Items: got %d, want 2", len(page.Items))
	}
	if !page.HasNext() || page.HasPrev() {
		t.Error("expected next page only")
	}
}

func TestPaginateDefaultsPageSize(t *testing.T) {
	page := Paginate(filterFixture(), 1, 0)
	if page.Size != DefaultPageSize {
		t.Errorf("Size: got %d, want %d", page.Size, DefaultPageSize)
	}
}
