package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("ParseCursor() error = %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Errorf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	got, err := ParseCursor("  ")
	if err != nil || got != nil {
		t.Fatalf("ParseCursor(blank) = %v, %v; want nil, nil", got, err)
	}
}

func TestParseCursorMalformed(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Error("bad base64 accepted")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Error("missing separator accepted")
	}
}

func TestTrimPage(t *testing.T) {
	type row struct {
		at time.Time
		id uuid.UUID
	}
	rows := []row{
		{time.Now(), uuid.New()},
		{time.Now(), uuid.New()},
		{time.Now(), uuid.New()},
	}

	trimmed, next := TrimPage(rows, 2, func(r row) Cursor {
		return Cursor{CreatedAt: r.at, ID: r.id}
	})
	if len(trimmed) != 2 {
		t.Fatalf("len(trimmed) = %d, want 2", len(trimmed))
	}
	if next == "" {
		t.Error("expected next cursor when more rows exist")
	}

	trimmed, next = TrimPage(rows[:2], 2, func(r row) Cursor {
		return Cursor{CreatedAt: r.at, ID: r.id}
	})
	if len(trimmed) != 2 || next != "" {
		t.Errorf("exact page: len=%d next=%q, want 2 and empty", len(trimmed), next)
	}
}
