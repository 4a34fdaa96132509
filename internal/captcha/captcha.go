// ABOUTME: One-shot human-verification challenges that gate registration
// ABOUTME: Time-bounded id-to-answer cache with a background sweeper goroutine

package captcha

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mojocn/base64Captcha"
)

// DefaultTTL is how long an issued challenge stays answerable.
const DefaultTTL = 5 * time.Minute

// DefaultSweepInterval is how often expired challenges are removed. Sweeping
// runs independently of access patterns so abusive issuance cannot grow the
// cache without bound.
const DefaultSweepInterval = 5 * time.Second

type entry struct {
	answer    string
	expiresAt time.Time
}

// Service issues visual challenges and consumes answers exactly once.
// It is an injected service with an explicit lifecycle: the sweeper starts
// at construction and stops on Close.
type Service struct {
	driver base64Captcha.Driver
	ttl    time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]entry

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a challenge service and starts its background sweeper.
// Non-positive ttl or sweepInterval fall back to the defaults.
func New(ttl, sweepInterval time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	driver := base64Captcha.NewDriverString(
		40, 120, 20, base64Captcha.OptionShowSlimeLine, 4,
		base64Captcha.TxtNumbers+base64Captcha.TxtAlphabet,
		nil, nil, nil,
	).ConvertFonts()

	s := &Service{
		driver:  driver,
		ttl:     ttl,
		logger:  logger.With("component", "captcha"),
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}

	go s.sweepLoop(sweepInterval)
	return s
}

// Issue generates a fresh challenge, caches its expected answer under a new
// id, and returns the id plus the rendered image as a base64 data URL.
func (s *Service) Issue() (id, imageB64 string, err error) {
	_, content, answer := s.driver.GenerateIdQuestionAnswer()

	item, err := s.driver.DrawCaptcha(content)
	if err != nil {
		return "", "", fmt.Errorf("rendering challenge: %w", err)
	}

	id = uuid.New().String()

	s.mu.Lock()
	s.entries[id] = entry{
		answer:    answer,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return id, item.EncodeB64string(), nil
}

// Consume looks up the challenge, removes it, and compares the attempt, all
// in one atomic step. The entry is removed on the first call regardless of
// whether the attempt matches, so a captured request cannot be replayed even
// with the correct answer. Absent or expired ids are rejected. Comparison is
// case-insensitive.
func (s *Service) Consume(id, attempt string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	delete(s.entries, id)

	if time.Now().After(e.expiresAt) {
		return false
	}
	return strings.EqualFold(e.answer, attempt)
}

// Len reports the number of cached challenges. Used by tests and metrics.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the background sweeper. Safe to call more than once.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Service) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep removes every expired entry. Split out from sweepLoop for testing.
func (s *Service) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept expired challenges", "removed", removed, "remaining", len(s.entries))
	}
}
