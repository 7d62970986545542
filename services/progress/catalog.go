package progress

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"project/models"
)

// Catalog exposes the course catalog's content counts. The engine reads
// them synchronously at recompute time and never caches them on the record.
type Catalog interface {
	ContentManifest(ctx context.Context, courseID uint) (Manifest, error)
}

// GormCatalog counts a course's current lectures, materials and quizzes.
type GormCatalog struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormCatalog(db *gorm.DB, timeout time.Duration) *GormCatalog {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GormCatalog{db: db, timeout: timeout}
}

func (c *GormCatalog) ContentManifest(ctx context.Context, courseID uint) (Manifest, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	db := c.db.WithContext(ctx)

	var course models.Course
	if err := db.Select("id").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Manifest{}, ErrCourseNotFound
		}
		return Manifest{}, classify(err)
	}

	var lectures, materials, quizzes int64
	if err := db.Model(&models.Lecture{}).Where("course_id = ?", courseID).Count(&lectures).Error; err != nil {
		return Manifest{}, classify(err)
	}
	if err := db.Model(&models.Material{}).Where("course_id = ?", courseID).Count(&materials).Error; err != nil {
		return Manifest{}, classify(err)
	}
	if err := db.Model(&models.Quiz{}).Where("course_id = ?", courseID).Count(&quizzes).Error; err != nil {
		return Manifest{}, classify(err)
	}

	return Manifest{
		LectureCount:  int(lectures),
		MaterialCount: int(materials),
		QuizCount:     int(quizzes),
	}, nil
}
