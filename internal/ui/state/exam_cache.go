package state

import (
	"sync"

	"github.com/Its-donkey/examdeck/internal/ui/model"
)

// ExamCache keeps the exams most recently rendered into the card deck.
type ExamCache struct {
	mu    sync.RWMutex
	exams []model.Exam
}

// NewExamCache constructs an empty ExamCache.
func NewExamCache() *ExamCache {
	return &ExamCache{}
}

// Snapshot returns a copy of the current exams.
//
// Callers can safely modify the returned slice without affecting the cache.
func (c *ExamCache) Snapshot() []model.Exam {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := make([]model.Exam, len(c.exams))
	copy(cp, c.exams)
	return cp
}

// Update replaces the current exams.
func (c *ExamCache) Update(exams []model.Exam) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := make([]model.Exam, len(exams))
	copy(cp, exams)
	c.exams = cp
}
