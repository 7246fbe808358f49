package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestPaginateWalksAllPages(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first, err := Paginate(items, Params{Limit: 2})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(first.Items) != 2 || first.Items[0] != 1 || first.Total != 5 || first.NextCursor == "" {
		t.Fatalf("unexpected first page %+v", first)
	}

	second, _ := Paginate(items, Params{Limit: 2, Cursor: first.NextCursor})
	if second.Items[0] != 3 {
		t.Fatalf("unexpected second page %+v", second)
	}

	third, _ := Paginate(items, Params{Limit: 2, Cursor: second.NextCursor})
	if len(third.Items) != 1 || third.Items[0] != 5 || third.NextCursor != "" {
		t.Fatalf("unexpected last page %+v", third)
	}
}

func TestPaginatePastEnd(t *testing.T) {
	page, err := Paginate([]int{1}, Params{Cursor: EncodeCursor(10)})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(page.Items) != 0 || page.Items == nil {
		t.Fatalf("expected empty non-nil page, got %+v", page)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if _, err := ParseCursor("!!"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseCursor(EncodeCursor(-1)); err == nil {
		t.Fatalf("expected negative offset error")
	}
}
