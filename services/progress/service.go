package progress

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"project/models"
)

// maxAttempts bounds how often a completion event is replayed after a
// concurrent-write conflict before the conflict is surfaced.
const maxAttempts = 3

// Service is the completion recorder and progress reader. Every completion
// event runs the same sequence: load or create the record, merge the event,
// recompute the percentage against the catalog, touch LastAccessed, set the
// CompletedAt watermark if 100% was just reached, persist. The sequence is
// retried as a whole when the store detects a concurrent write.
type Service struct {
	store   Store
	catalog Catalog

	// Now is the clock used for LastAccessed, StartedAt and quiz
	// timestamps. Overridable in tests.
	Now func() time.Time
}

func NewService(store Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog, Now: time.Now}
}

// CompletionResult is what a completion event reports back.
type CompletionResult struct {
	ProgressPercentage int              `json:"progressPercentage"`
	IsCompleted        bool             `json:"isCompleted"`
	CompletedLectures  []string         `json:"completedLectures"`
	CompletedMaterials []string         `json:"completedMaterials"`
	CompletedQuizzes   []QuizCompletion `json:"completedQuizzes"`

	// WasAlreadyCompleted is set by lecture/material events whose content
	// was already in the completed set.
	WasAlreadyCompleted bool `json:"wasAlreadyCompleted"`
	// WasUpdated is set by quiz events that inserted or replaced the
	// stored result.
	WasUpdated bool `json:"wasUpdated"`
}

// QuizCompletion is one quiz's stored best attempt in client-facing form.
type QuizCompletion struct {
	QuizID      string    `json:"quizId"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// Snapshot is the read-only projection of a progress record. An absent
// record projects as all-zero, not as an error.
type Snapshot struct {
	ProgressPercentage int              `json:"progressPercentage"`
	CompletedLectures  []string         `json:"completedLectures"`
	CompletedMaterials []string         `json:"completedMaterials"`
	CompletedQuizzes   []QuizCompletion `json:"completedQuizzes"`
	LastAccessed       *time.Time       `json:"lastAccessed"`
	StartedAt          *time.Time       `json:"startedAt"`
	CompletedAt        *time.Time       `json:"completedAt"`
}

// RecordLectureCompletion marks a lecture as watched. Repeating the event
// is not an error and never double-counts; the result reports whether the
// lecture was already in the completed set.
func (s *Service) RecordLectureCompletion(ctx context.Context, userID, courseID uint, lectureID string) (*CompletionResult, error) {
	if err := requireIDs(userID, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(lectureID) == "" {
		return nil, validationf("lecture id is required")
	}

	return s.record(ctx, userID, courseID, func(rec *models.Progress) bool {
		if rec.HasLecture(lectureID) {
			return true
		}
		rec.CompletedLectures = append(rec.CompletedLectures, lectureID)
		return false
	})
}

// RecordMaterialCompletion marks a material as opened, keyed by title.
func (s *Service) RecordMaterialCompletion(ctx context.Context, userID, courseID uint, materialTitle string) (*CompletionResult, error) {
	if err := requireIDs(userID, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(materialTitle) == "" {
		return nil, validationf("material title is required")
	}

	return s.record(ctx, userID, courseID, func(rec *models.Progress) bool {
		if rec.HasMaterial(materialTitle) {
			return true
		}
		rec.CompletedMaterials = append(rec.CompletedMaterials, materialTitle)
		return false
	})
}

// RecordQuizCompletion records a quiz attempt. Merge rule is
// max-score-wins: the stored entry is replaced, timestamp included, only
// when the new score is strictly greater. The result's WasUpdated reports
// whether the stored entry changed.
func (s *Service) RecordQuizCompletion(ctx context.Context, userID, courseID uint, quizID string, score int) (*CompletionResult, error) {
	if err := requireIDs(userID, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(quizID) == "" {
		return nil, validationf("quiz id is required")
	}
	if score < 0 || score > 100 {
		return nil, validationf("score must be between 0 and 100, got %d", score)
	}

	res, err := s.record(ctx, userID, courseID, func(rec *models.Progress) bool {
		results := rec.QuizResults()
		existing, ok := results[quizID]
		if ok && score <= existing.Score {
			return true // stored attempt is at least as good, keep it
		}
		results[quizID] = models.QuizResult{Score: score, CompletedAt: s.Now()}
		rec.SetQuizResults(results)
		return false
	})
	if err != nil {
		return nil, err
	}
	// For quiz events the merge flag means "nothing changed"; report the inverse.
	res.WasUpdated = !res.WasAlreadyCompleted
	res.WasAlreadyCompleted = false
	return res, nil
}

// GetProgress projects the stored record. No record means zero percent and
// empty lists, a valid state rather than an error.
func (s *Service) GetProgress(ctx context.Context, userID, courseID uint) (*Snapshot, error) {
	if err := requireIDs(userID, courseID); err != nil {
		return nil, err
	}

	rec, err := s.store.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			return &Snapshot{
				CompletedLectures:  []string{},
				CompletedMaterials: []string{},
				CompletedQuizzes:   []QuizCompletion{},
			}, nil
		}
		return nil, err
	}

	started := rec.StartedAt
	accessed := rec.LastAccessed
	return &Snapshot{
		ProgressPercentage: rec.ProgressPercentage,
		CompletedLectures:  copyStrings(rec.CompletedLectures),
		CompletedMaterials: copyStrings(rec.CompletedMaterials),
		CompletedQuizzes:   projectQuizzes(rec.QuizResults()),
		LastAccessed:       &accessed,
		StartedAt:          &started,
		CompletedAt:        rec.CompletedAt,
	}, nil
}

// EnsureRecord pre-creates an empty progress record, used by the
// enrollment flow. The engine's own contract is lazy creation, so an
// existing record, including one created by a racing first completion
// event, is not an error.
func (s *Service) EnsureRecord(ctx context.Context, userID, courseID uint) error {
	if err := requireIDs(userID, courseID); err != nil {
		return err
	}

	_, err := s.store.Get(ctx, userID, courseID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrProgressNotFound) {
		return err
	}

	now := s.Now()
	rec := &models.Progress{
		UserID:       userID,
		CourseID:     courseID,
		StartedAt:    now,
		LastAccessed: now,
	}
	if err := s.store.Create(ctx, rec); err != nil && !errors.Is(err, ErrConflict) {
		return err
	}
	return nil
}

// record runs the load-merge-recompute-save sequence. apply merges the
// event into the record and reports whether the stored state already
// covered it. Conflicts restart the sequence from a fresh load so no
// concurrent completion is lost.
func (s *Service) record(ctx context.Context, userID, courseID uint, apply func(*models.Progress) bool) (*CompletionResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		rec, created, err := s.loadOrNew(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}

		already := apply(rec)
		if err := s.finalize(ctx, rec); err != nil {
			return nil, err
		}

		if created {
			err = s.store.Create(ctx, rec)
		} else {
			err = s.store.Update(ctx, rec)
		}
		if err == nil {
			return resultFrom(rec, already), nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Service) loadOrNew(ctx context.Context, userID, courseID uint) (*models.Progress, bool, error) {
	rec, err := s.store.Get(ctx, userID, courseID)
	if err == nil {
		return rec, false, nil
	}
	if !errors.Is(err, ErrProgressNotFound) {
		return nil, false, err
	}
	return &models.Progress{
		UserID:    userID,
		CourseID:  courseID,
		StartedAt: s.Now(),
	}, true, nil
}

// finalize recomputes the derived state after a merge. A course missing
// from the catalog degrades the percentage to 0 but does not fail the
// write; the completion event itself is still recorded.
func (s *Service) finalize(ctx context.Context, rec *models.Progress) error {
	manifest, err := s.catalog.ContentManifest(ctx, rec.CourseID)
	if err != nil {
		if !errors.Is(err, ErrCourseNotFound) {
			return err
		}
		manifest = Manifest{}
	}

	rec.ProgressPercentage = CalculatePercentage(manifest, rec)
	now := s.Now()
	rec.LastAccessed = now
	if rec.ProgressPercentage == 100 && rec.CompletedAt == nil {
		completed := now
		rec.CompletedAt = &completed
	}
	return nil
}

func resultFrom(rec *models.Progress, already bool) *CompletionResult {
	return &CompletionResult{
		ProgressPercentage:  rec.ProgressPercentage,
		IsCompleted:         rec.ProgressPercentage == 100,
		CompletedLectures:   copyStrings(rec.CompletedLectures),
		CompletedMaterials:  copyStrings(rec.CompletedMaterials),
		CompletedQuizzes:    projectQuizzes(rec.QuizResults()),
		WasAlreadyCompleted: already,
	}
}

func projectQuizzes(results models.QuizResultMap) []QuizCompletion {
	out := make([]QuizCompletion, 0, len(results))
	for id, r := range results {
		out = append(out, QuizCompletion{QuizID: id, Score: r.Score, CompletedAt: r.CompletedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizID < out[j].QuizID })
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func requireIDs(userID, courseID uint) error {
	if userID == 0 {
		return validationf("user id is required")
	}
	if courseID == 0 {
		return validationf("course id is required")
	}
	return nil
}
