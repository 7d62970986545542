package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"project/services/progress"
	"project/utils"
	"project/validators"
)

type ProgressController struct {
	Progress *progress.Service
}

func NewProgressController(service *progress.Service) *ProgressController {
	return &ProgressController{Progress: service}
}

// CompleteLecture godoc
// @Summary Mark a lecture as completed
// @Description Records a lecture completion event; repeating it is harmless
// @Tags progress
// @Accept json
// @Produce json
// @Param request body validators.LectureCompletionRequest true "Completion event"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/lecture [post]
func (pc *ProgressController) CompleteLecture(c *fiber.Ctx) error {
	req := c.Locals("lectureCompletion").(*validators.LectureCompletionRequest)

	result, err := pc.Progress.RecordLectureCompletion(c.Context(), req.UserID, req.CourseID, req.LectureID)
	if err != nil {
		return progressError(c, err)
	}

	message := "Lecture marked as completed"
	if result.WasAlreadyCompleted {
		message = "Lecture was already completed"
	}
	return utils.SuccessMessage(c, fiber.StatusOK, message, result)
}

// CompleteMaterial godoc
// @Summary Mark a material as completed
// @Description Records a material completion event, keyed by title
// @Tags progress
// @Accept json
// @Produce json
// @Param request body validators.MaterialCompletionRequest true "Completion event"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/material [post]
func (pc *ProgressController) CompleteMaterial(c *fiber.Ctx) error {
	req := c.Locals("materialCompletion").(*validators.MaterialCompletionRequest)

	result, err := pc.Progress.RecordMaterialCompletion(c.Context(), req.UserID, req.CourseID, req.MaterialTitle)
	if err != nil {
		return progressError(c, err)
	}

	message := "Material marked as completed"
	if result.WasAlreadyCompleted {
		message = "Material was already completed"
	}
	return utils.SuccessMessage(c, fiber.StatusOK, message, result)
}

// CompleteQuiz godoc
// @Summary Record a quiz attempt
// @Description Stores the attempt under a max-score-wins merge rule
// @Tags progress
// @Accept json
// @Produce json
// @Param request body validators.QuizCompletionRequest true "Completion event"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/quiz [post]
func (pc *ProgressController) CompleteQuiz(c *fiber.Ctx) error {
	req := c.Locals("quizCompletion").(*validators.QuizCompletionRequest)

	result, err := pc.Progress.RecordQuizCompletion(c.Context(), req.UserID, req.CourseID, req.QuizID, req.Score)
	if err != nil {
		return progressError(c, err)
	}

	message := "Quiz completed successfully"
	if !result.WasUpdated {
		message = "Quiz was already completed with better score"
	}
	return utils.SuccessMessage(c, fiber.StatusOK, message, result)
}

// GetProgress godoc
// @Summary Get progress for a user and course
// @Description Returns the progress projection; no prior events means zero progress
// @Tags progress
// @Produce json
// @Param userId path int true "User ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /progress/{userId}/{courseId} [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil || userID <= 0 {
		return utils.BadRequest(c, "Invalid user ID")
	}
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil || courseID <= 0 {
		return utils.BadRequest(c, "Invalid course ID")
	}

	snapshot, err := pc.Progress.GetProgress(c.Context(), uint(userID), uint(courseID))
	if err != nil {
		return progressError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, snapshot)
}

// progressError maps engine error kinds onto HTTP statuses.
func progressError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrValidation):
		return utils.Error(c, fiber.StatusUnprocessableEntity, err)
	case errors.Is(err, progress.ErrCourseNotFound), errors.Is(err, progress.ErrProgressNotFound):
		return utils.Error(c, fiber.StatusNotFound, err)
	case errors.Is(err, progress.ErrConflict):
		return utils.Error(c, fiber.StatusConflict, err)
	case errors.Is(err, progress.ErrUnavailable):
		return utils.Error(c, fiber.StatusServiceUnavailable, err)
	default:
		return utils.InternalServerError(c, "Could not record progress")
	}
}
