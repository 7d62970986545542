package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizResult is one quiz's best recorded attempt.
type QuizResult struct {
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// QuizResultMap keys quiz results by quiz id. At most one entry per quiz.
type QuizResultMap map[string]QuizResult

// Progress holds one user's completion state for one course. The unique
// index on (user_id, course_id) is a hard invariant: a second concurrent
// creation for the same pair fails instead of overwriting.
//
// ProgressPercentage is derived from the completion sets and the course's
// content counts on every write; it is never set independently.
type Progress struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_progress_user_course;not null" json:"userId"`
	CourseID uint `gorm:"uniqueIndex:idx_progress_user_course;not null" json:"courseId"`

	CompletedLectures  datatypes.JSONSlice[string]       `json:"completedLectures"`
	CompletedMaterials datatypes.JSONSlice[string]       `json:"completedMaterials"` // keyed by title
	CompletedQuizzes   datatypes.JSONType[QuizResultMap] `json:"completedQuizzes"`

	ProgressPercentage int `gorm:"default:0" json:"progressPercentage"`

	StartedAt    time.Time  `json:"startedAt"`
	LastAccessed time.Time  `json:"lastAccessed"`
	// CompletedAt marks the first time the record reached 100%. It is never
	// cleared, even if later catalog additions drop the percentage again.
	CompletedAt *time.Time `json:"completedAt"`

	// Version is the optimistic-concurrency token checked by the store's
	// compare-and-swap update.
	Version int64 `gorm:"default:1" json:"-"`
}

// HasLecture reports whether the lecture is already in the completed set.
func (p *Progress) HasLecture(lectureID string) bool {
	for _, id := range p.CompletedLectures {
		if id == lectureID {
			return true
		}
	}
	return false
}

// HasMaterial reports whether the material title is already in the completed set.
func (p *Progress) HasMaterial(title string) bool {
	for _, t := range p.CompletedMaterials {
		if t == title {
			return true
		}
	}
	return false
}

// QuizResults returns the quiz result map, never nil.
func (p *Progress) QuizResults() QuizResultMap {
	m := p.CompletedQuizzes.Data()
	if m == nil {
		m = QuizResultMap{}
	}
	return m
}

// SetQuizResults replaces the stored quiz result map.
func (p *Progress) SetQuizResults(m QuizResultMap) {
	p.CompletedQuizzes = datatypes.NewJSONType(m)
}
