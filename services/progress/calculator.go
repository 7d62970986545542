package progress

import (
	"math"

	"project/models"
)

// Manifest is the catalog's view of how much gradable content a course has,
// counted at read time.
type Manifest struct {
	LectureCount  int
	MaterialCount int
	QuizCount     int
}

func (m Manifest) TotalUnits() int {
	return m.LectureCount + m.MaterialCount + m.QuizCount
}

// CalculatePercentage derives the completion percentage of a record against
// a manifest. Every completed lecture, material and quiz counts as one unit;
// a quiz counts regardless of score. Rounding is half-up, the result is
// clamped to [0,100]. A course with no content is 0% completable.
//
// Not monotonic across catalog edits: content added after a user reached
// 100% drops the percentage again. That is intended; the CompletedAt
// watermark on the record is what survives.
func CalculatePercentage(manifest Manifest, record *models.Progress) int {
	total := manifest.TotalUnits()
	if total <= 0 {
		return 0
	}

	completed := len(record.CompletedLectures) +
		len(record.CompletedMaterials) +
		len(record.QuizResults())

	pct := int(math.Floor(float64(completed)/float64(total)*100 + 0.5))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
