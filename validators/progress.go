package validators

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"project/utils"
)

var validate = validator.New()

// LectureCompletionRequest is the payload for marking a lecture watched.
type LectureCompletionRequest struct {
	UserID    uint   `json:"userId" validate:"required"`
	CourseID  uint   `json:"courseId" validate:"required"`
	LectureID string `json:"lectureId" validate:"required"`
}

// MaterialCompletionRequest is the payload for marking a material opened.
// Materials are keyed by title.
type MaterialCompletionRequest struct {
	UserID        uint   `json:"userId" validate:"required"`
	CourseID      uint   `json:"courseId" validate:"required"`
	MaterialTitle string `json:"materialTitle" validate:"required"`
}

// QuizCompletionRequest is the payload for recording a quiz attempt.
type QuizCompletionRequest struct {
	UserID   uint   `json:"userId" validate:"required"`
	CourseID uint   `json:"courseId" validate:"required"`
	QuizID   string `json:"quizId" validate:"required"`
	Score    int    `json:"score" validate:"gte=0,lte=100"`
}

// CompleteLecture validates the lecture completion payload and stashes it
// in locals for the handler.
func CompleteLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(LectureCompletionRequest)
		if err := c.BodyParser(req); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
		if errs := check(req); errs != nil {
			return utils.ValidationError(c, errs)
		}
		c.Locals("lectureCompletion", req)
		return c.Next()
	}
}

// CompleteMaterial validates the material completion payload.
func CompleteMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(MaterialCompletionRequest)
		if err := c.BodyParser(req); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
		if errs := check(req); errs != nil {
			return utils.ValidationError(c, errs)
		}
		c.Locals("materialCompletion", req)
		return c.Next()
	}
}

// CompleteQuiz validates the quiz completion payload.
func CompleteQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(QuizCompletionRequest)
		if err := c.BodyParser(req); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
		if errs := check(req); errs != nil {
			return utils.ValidationError(c, errs)
		}
		c.Locals("quizCompletion", req)
		return c.Next()
	}
}

// check runs struct validation and flattens failures to field messages.
func check(req interface{}) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		switch fe.Tag() {
		case "required":
			errs[fe.Field()] = fe.Field() + " is required"
		case "gte":
			errs[fe.Field()] = fe.Field() + " must be at least " + fe.Param()
		case "lte":
			errs[fe.Field()] = fe.Field() + " must be at most " + fe.Param()
		default:
			errs[fe.Field()] = fe.Field() + " is invalid"
		}
	}
	return errs
}
