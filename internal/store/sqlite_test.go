// ABOUTME: Tests for SQLite store initialization and user persistence
// ABOUTME: Covers schema creation, duplicate usernames, and lookup failures

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return s
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	user := &User{
		Username:     "kaede",
		PasswordHash: "$2a$10$fakehash",
		Role:         "USER",
		CreatedAt:    time.Now(),
	}

	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("CreateUser did not assign an ID")
	}

	got, err := s.GetUserByUsername(ctx, "kaede")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if got.Username != "kaede" {
		t.Errorf("username = %q, want %q", got.Username, "kaede")
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("password hash = %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if got.Role != "USER" {
		t.Errorf("role = %q, want USER", got.Role)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	user := &User{Username: "kaede", PasswordHash: "h", Role: "USER", CreatedAt: time.Now()}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dup := &User{Username: "kaede", PasswordHash: "h2", Role: "USER", CreatedAt: time.Now()}
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate CreateUser error = %v, want ErrDuplicateUser", err)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	_, err := s.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCountUsers(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	count, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 0 {
		t.Errorf("initial count = %d, want 0", count)
	}

	for _, name := range []string{"a", "b", "c"} {
		u := &User{Username: name, PasswordHash: "h", Role: "USER", CreatedAt: time.Now()}
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser(%q) failed: %v", name, err)
		}
	}

	count, err = s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
