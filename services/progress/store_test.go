package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"project/database"
	"project/models"
	"project/services/progress"
)

func openStore(t *testing.T) (*progress.GormStore, *gorm.DB) {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)
	return progress.NewGormStore(db, 5*time.Second), db
}

func TestGormStoreRoundTrip(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	rec := &models.Progress{
		UserID:       7,
		CourseID:     1,
		StartedAt:    time.Now().UTC(),
		LastAccessed: time.Now().UTC(),
	}
	rec.CompletedLectures = append(rec.CompletedLectures, "lec-1", "lec-2")
	rec.CompletedMaterials = append(rec.CompletedMaterials, "Course Notes")
	rec.SetQuizResults(models.QuizResultMap{
		"quiz-1": {Score: 85, CompletedAt: time.Now().UTC()},
	})
	rec.ProgressPercentage = 80

	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Get(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"lec-1", "lec-2"}, []string(got.CompletedLectures))
	assert.Equal(t, []string{"Course Notes"}, []string(got.CompletedMaterials))
	assert.Equal(t, 85, got.QuizResults()["quiz-1"].Score)
	assert.Equal(t, 80, got.ProgressPercentage)
	assert.Equal(t, int64(1), got.Version)
}

func TestGormStoreGetAbsent(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.Get(context.Background(), 7, 1)
	assert.ErrorIs(t, err, progress.ErrProgressNotFound)
}

func TestGormStoreDuplicateCreateConflicts(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	first := &models.Progress{UserID: 7, CourseID: 1, StartedAt: time.Now()}
	require.NoError(t, store.Create(ctx, first))

	second := &models.Progress{UserID: 7, CourseID: 1, StartedAt: time.Now()}
	err := store.Create(ctx, second)
	assert.ErrorIs(t, err, progress.ErrConflict, "uniqueness of (user, course) is a hard invariant")

	// Different course for the same user is fine.
	other := &models.Progress{UserID: 7, CourseID: 2, StartedAt: time.Now()}
	assert.NoError(t, store.Create(ctx, other))
}

func TestGormStoreStaleVersionRejected(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	rec := &models.Progress{UserID: 7, CourseID: 1, StartedAt: time.Now()}
	require.NoError(t, store.Create(ctx, rec))

	a, err := store.Get(ctx, 7, 1)
	require.NoError(t, err)
	b, err := store.Get(ctx, 7, 1)
	require.NoError(t, err)

	a.CompletedLectures = append(a.CompletedLectures, "lec-1")
	require.NoError(t, store.Update(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	b.CompletedLectures = append(b.CompletedLectures, "lec-2")
	err = store.Update(ctx, b)
	assert.ErrorIs(t, err, progress.ErrConflict, "stale writer must not clobber")

	got, err := store.Get(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"lec-1"}, []string(got.CompletedLectures))
}

func TestGormCatalogManifest(t *testing.T) {
	db, err := database.OpenTest()
	require.NoError(t, err)
	catalog := progress.NewGormCatalog(db, 5*time.Second)
	ctx := context.Background()

	course := models.Course{Title: "Intro to Philosophy", TeacherID: 1}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "Lecture 1"}).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "Lecture 2"}).Error)
	require.NoError(t, db.Create(&models.Material{CourseID: course.ID, Title: "Reader", Type: "pdf"}).Error)
	require.NoError(t, db.Create(&models.Quiz{CourseID: course.ID, Title: "Midterm"}).Error)

	manifest, err := catalog.ContentManifest(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.Manifest{LectureCount: 2, MaterialCount: 1, QuizCount: 1}, manifest)
	assert.Equal(t, 4, manifest.TotalUnits())

	_, err = catalog.ContentManifest(ctx, course.ID+100)
	assert.ErrorIs(t, err, progress.ErrCourseNotFound)
}

// End-to-end over the real store: the engine against SQLite.
func TestServiceWithGormStore(t *testing.T) {
	db, err := database.OpenTest()
	require.NoError(t, err)

	course := models.Course{Title: "Logic", TeacherID: 1}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "L1"}).Error)
	require.NoError(t, db.Create(&models.Quiz{CourseID: course.ID, Title: "Q1"}).Error)

	svc := progress.NewService(
		progress.NewGormStore(db, 5*time.Second),
		progress.NewGormCatalog(db, 5*time.Second),
	)
	ctx := context.Background()

	res, err := svc.RecordLectureCompletion(ctx, 7, course.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 50, res.ProgressPercentage)

	res, err = svc.RecordQuizCompletion(ctx, 7, course.ID, "1", 70)
	require.NoError(t, err)
	assert.Equal(t, 100, res.ProgressPercentage)
	assert.True(t, res.IsCompleted)

	snap, err := svc.GetProgress(ctx, 7, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, snap.ProgressPercentage)
	require.NotNil(t, snap.CompletedAt)
}
