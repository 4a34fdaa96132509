// ABOUTME: Tests for the like toggle and its counter invariants
// ABOUTME: Covers add/remove alternation, the zero floor, and missing resources

package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func seedProject(t *testing.T, s *SQLiteStore) *Project {
	t.Helper()
	p := &Project{Title: "synth demo", Description: "a demo", CreatedAt: time.Now()}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	return p
}

func seedArticle(t *testing.T, s *SQLiteStore) *Article {
	t.Helper()
	a := &Article{Title: "first post", Content: "# hello"}
	if err := s.CreateArticle(context.Background(), a); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	return a
}

func TestToggleLike_Alternates(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	p := seedProject(t, s)

	count, liked, err := s.ToggleLike(ctx, ResourceProject, p.ID, "kaede")
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !liked || count != 1 {
		t.Errorf("first toggle = (%d, %v), want (1, true)", count, liked)
	}

	status, err := s.LikeStatus(ctx, ResourceProject, p.ID, "kaede")
	if err != nil {
		t.Fatalf("LikeStatus failed: %v", err)
	}
	if !status {
		t.Error("LikeStatus = false after like")
	}

	count, liked, err = s.ToggleLike(ctx, ResourceProject, p.ID, "kaede")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if liked || count != 0 {
		t.Errorf("second toggle = (%d, %v), want (0, false)", count, liked)
	}

	status, err = s.LikeStatus(ctx, ResourceProject, p.ID, "kaede")
	if err != nil {
		t.Fatalf("LikeStatus failed: %v", err)
	}
	if status {
		t.Error("LikeStatus = true after unlike")
	}
}

func TestToggleLike_TwoSubjects(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	a := seedArticle(t, s)

	if _, _, err := s.ToggleLike(ctx, ResourceArticle, a.ID, "kaede"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	count, _, err := s.ToggleLike(ctx, ResourceArticle, a.ID, "visitor")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	// kaede unlikes; visitor's like survives.
	count, _, err = s.ToggleLike(ctx, ResourceArticle, a.ID, "kaede")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	status, err := s.LikeStatus(ctx, ResourceArticle, a.ID, "visitor")
	if err != nil {
		t.Fatalf("LikeStatus failed: %v", err)
	}
	if !status {
		t.Error("visitor's like was lost")
	}
}

func TestToggleLike_CounterFloor(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	p := seedProject(t, s)

	// Like record exists but the row counter was corrupted to zero.
	if _, _, err := s.ToggleLike(ctx, ResourceProject, p.ID, "kaede"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := s.db.Exec("UPDATE projects SET like_count = 0 WHERE id = ?", p.ID); err != nil {
		t.Fatalf("corrupting counter failed: %v", err)
	}

	count, liked, err := s.ToggleLike(ctx, ResourceProject, p.ID, "kaede")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if liked {
		t.Error("toggle reported liked after removal")
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 (floor)", count)
	}
}

func TestToggleLike_ConcurrentSubjects(t *testing.T) {
	// A file-backed store so the pooled connections share one database.
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "likes.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	p := seedProject(t, s)

	// Concurrent toggles from different subjects must serialize on the
	// storage lock, not fail; an odd round count leaves every subject liked.
	subjects := []string{"alice", "bob", "carol", "dave"}
	const rounds = 5

	var wg sync.WaitGroup
	errs := make(chan error, len(subjects))
	for _, name := range subjects {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, _, err := s.ToggleLike(ctx, ResourceProject, p.ID, name); err != nil {
					errs <- err
					return
				}
			}
		}(name)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent toggle failed: %v", err)
	}

	got, err := s.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.LikeCount != len(subjects) {
		t.Errorf("like_count = %d, want %d (no lost updates)", got.LikeCount, len(subjects))
	}

	records, err := s.ListLikers(ctx, ResourceProject, p.ID)
	if err != nil {
		t.Fatalf("ListLikers failed: %v", err)
	}
	if len(records) != len(subjects) {
		t.Errorf("got %d like records, want %d", len(records), len(subjects))
	}
}

func TestToggleLike_MissingResource(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	_, _, err := s.ToggleLike(context.Background(), ResourceProject, 999, "kaede")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestToggleLike_UnknownResourceType(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	_, _, err := s.ToggleLike(context.Background(), "page", 1, "kaede")
	if err == nil {
		t.Error("expected error for unknown resource type")
	}
}

func TestListLikers(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	a := seedArticle(t, s)

	for _, name := range []string{"one", "two", "three"} {
		if _, _, err := s.ToggleLike(ctx, ResourceArticle, a.ID, name); err != nil {
			t.Fatalf("toggle(%q) failed: %v", name, err)
		}
	}

	records, err := s.ListLikers(ctx, ResourceArticle, a.ID)
	if err != nil {
		t.Fatalf("ListLikers failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d likers, want 3", len(records))
	}
	for _, r := range records {
		if r.ResourceType != ResourceArticle || r.ResourceID != a.ID {
			t.Errorf("record points at (%s, %d), want (%s, %d)",
				r.ResourceType, r.ResourceID, ResourceArticle, a.ID)
		}
	}
}
