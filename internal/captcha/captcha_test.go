// ABOUTME: Tests for the one-shot challenge cache
// ABOUTME: Covers single-use consumption, expiry, case folding, and sweeping

package captcha

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := New(DefaultTTL, DefaultSweepInterval, nil)
	t.Cleanup(s.Close)
	return s
}

// plant inserts a challenge with a known answer, bypassing image rendering.
func plant(s *Service, id, answer string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry{answer: answer, expiresAt: expiresAt}
}

func TestIssue(t *testing.T) {
	s := newTestService(t)

	id, img, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if id == "" {
		t.Error("empty challenge id")
	}
	if !strings.HasPrefix(img, "data:image/") {
		t.Errorf("image is not a data URL: %.40q", img)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	// Each challenge gets a distinct id.
	id2, _, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if id2 == id {
		t.Error("duplicate challenge id")
	}
}

func TestConsume_CorrectAnswer(t *testing.T) {
	s := newTestService(t)
	plant(s, "c1", "aB3x", time.Now().Add(time.Minute))

	if !s.Consume("c1", "aB3x") {
		t.Error("correct answer rejected")
	}
	if s.Len() != 0 {
		t.Error("entry survived consumption")
	}
}

func TestConsume_CaseInsensitive(t *testing.T) {
	s := newTestService(t)
	plant(s, "c1", "aB3x", time.Now().Add(time.Minute))

	if !s.Consume("c1", "AB3X") {
		t.Error("case-folded answer rejected")
	}
}

func TestConsume_SingleUse(t *testing.T) {
	s := newTestService(t)
	plant(s, "c1", "aB3x", time.Now().Add(time.Minute))

	if !s.Consume("c1", "aB3x") {
		t.Fatal("first consume failed")
	}
	// Replaying the same id and correct answer must fail.
	if s.Consume("c1", "aB3x") {
		t.Error("replay succeeded")
	}
}

func TestConsume_WrongAnswerStillBurns(t *testing.T) {
	s := newTestService(t)
	plant(s, "c1", "aB3x", time.Now().Add(time.Minute))

	if s.Consume("c1", "nope") {
		t.Error("wrong answer accepted")
	}
	// A wrong attempt burns the challenge; the right answer is now too late.
	if s.Consume("c1", "aB3x") {
		t.Error("challenge usable after failed attempt")
	}
}

func TestConsume_ConcurrentSingleWinner(t *testing.T) {
	s := newTestService(t)
	plant(s, "c1", "aB3x", time.Now().Add(time.Minute))

	// Racing consumers with the correct answer: exactly one may win.
	const callers = 16
	var wg sync.WaitGroup
	var wins atomic.Int32
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if s.Consume("c1", "aB3x") {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("winners = %d, want exactly 1", got)
	}
	if s.Len() != 0 {
		t.Error("entry survived concurrent consumption")
	}
}

func TestConsume_UnknownID(t *testing.T) {
	s := newTestService(t)
	if s.Consume("missing", "anything") {
		t.Error("unknown id accepted")
	}
}

func TestConsume_Expired(t *testing.T) {
	s := newTestService(t)
	plant(s, "c1", "aB3x", time.Now().Add(-time.Second))

	if s.Consume("c1", "aB3x") {
		t.Error("expired challenge accepted")
	}
	if s.Len() != 0 {
		t.Error("expired entry not removed on consume")
	}
}

func TestSweep(t *testing.T) {
	s := newTestService(t)
	now := time.Now()
	plant(s, "live", "a", now.Add(time.Minute))
	plant(s, "dead1", "b", now.Add(-time.Second))
	plant(s, "dead2", "c", now.Add(-time.Minute))

	s.sweep(now)

	if s.Len() != 1 {
		t.Errorf("Len after sweep = %d, want 1", s.Len())
	}
	if !s.Consume("live", "a") {
		t.Error("live entry was swept")
	}
}

func TestClose_Idempotent(t *testing.T) {
	s := New(DefaultTTL, DefaultSweepInterval, nil)
	s.Close()
	s.Close() // must not panic
}
