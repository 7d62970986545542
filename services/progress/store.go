package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"project/models"
)

// Store persists progress records. It is the only path to stored progress;
// Create must fail with ErrConflict when a record for the same
// (user, course) pair already exists, and Update must reject stale versions.
type Store interface {
	Get(ctx context.Context, userID, courseID uint) (*models.Progress, error)
	Create(ctx context.Context, record *models.Progress) error
	Update(ctx context.Context, record *models.Progress) error
}

// GormStore implements Store on a relational database. Creation conflicts
// come from the unique (user_id, course_id) index; updates are
// compare-and-swap on the version column.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormStore(db *gorm.DB, timeout time.Duration) *GormStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GormStore{db: db, timeout: timeout}
}

func (s *GormStore) Get(ctx context.Context, userID, courseID uint) (*models.Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var record models.Progress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, classify(err)
	}
	return &record, nil
}

func (s *GormStore) Create(ctx context.Context, record *models.Progress) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record.Version = 1
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: record already exists for user %d course %d",
				ErrConflict, record.UserID, record.CourseID)
		}
		return classify(err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, record *models.Progress) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := s.db.WithContext(ctx).
		Model(&models.Progress{}).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]interface{}{
			"completed_lectures":  record.CompletedLectures,
			"completed_materials": record.CompletedMaterials,
			"completed_quizzes":   record.CompletedQuizzes,
			"progress_percentage": record.ProgressPercentage,
			"last_accessed":       record.LastAccessed,
			"completed_at":        record.CompletedAt,
			"version":             record.Version + 1,
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: stale version %d for record %d",
			ErrConflict, record.Version, record.ID)
	}
	record.Version++
	return nil
}

// classify maps driver failures, including context deadline expiry, onto
// the transient error kind so the caller knows the write may be retried.
func classify(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
