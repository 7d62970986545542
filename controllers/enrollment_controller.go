package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"project/config"
	"project/models"
	"project/services/progress"
	"project/utils"
)

type EnrollmentController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Progress *progress.Service
}

func NewEnrollmentController(db *gorm.DB, cfg *config.Config, service *progress.Service) *EnrollmentController {
	return &EnrollmentController{DB: db, Cfg: cfg, Progress: service}
}

// Enroll godoc
// @Summary Enroll the authenticated user in a course
// @Description Creates the enrollment and pre-creates an empty progress record
// @Tags enrollments
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /enrollments [post]
func (ec *EnrollmentController) Enroll(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	type EnrollInput struct {
		CourseID uint `json:"courseId"`
	}
	var input EnrollInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CourseID == 0 {
		return utils.BadRequest(c, "Course ID is required")
	}

	var course models.Course
	if err := ec.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: input.CourseID}
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.BadRequest(c, "Already enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not enroll in course")
	}

	// Pre-create the progress record. The engine's contract is lazy
	// creation, so a record that already exists (racing first completion
	// event) is not an error here.
	if err := ec.Progress.EnsureRecord(c.Context(), userID, input.CourseID); err != nil {
		return utils.ServiceUnavailable(c, "Enrolled, but progress could not be initialized")
	}

	return utils.SuccessMessage(c, fiber.StatusCreated, "Enrolled successfully", enrollment)
}

// GetStudentEnrollments godoc
// @Summary List a student's enrollments with live progress
// @Tags enrollments
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /enrollments/student/{studentId} [get]
func (ec *EnrollmentController) GetStudentEnrollments(c *fiber.Ctx) error {
	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil || studentID <= 0 {
		return utils.BadRequest(c, "Invalid student ID")
	}

	var enrollments []models.Enrollment
	if err := ec.DB.Where("user_id = ?", studentID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		var course models.Course
		if err := ec.DB.First(&course, e.CourseID).Error; err != nil {
			continue
		}
		snapshot, err := ec.Progress.GetProgress(c.Context(), e.UserID, e.CourseID)
		if err != nil {
			return utils.ServiceUnavailable(c, "Could not read progress")
		}
		result = append(result, fiber.Map{
			"enrollment":   e,
			"course":       course,
			"progress":     snapshot.ProgressPercentage,
			"lastAccessed": snapshot.LastAccessed,
			"isCompleted":  snapshot.ProgressPercentage == 100,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetCourseEnrollments godoc
// @Summary List a course's enrolled students with live progress
// @Tags enrollments
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /enrollments/course/{courseId} [get]
func (ec *EnrollmentController) GetCourseEnrollments(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil || courseID <= 0 {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var enrollments []models.Enrollment
	if err := ec.DB.Where("course_id = ?", courseID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		var student models.User
		if err := ec.DB.First(&student, e.UserID).Error; err != nil {
			continue
		}
		snapshot, err := ec.Progress.GetProgress(c.Context(), e.UserID, e.CourseID)
		if err != nil {
			return utils.ServiceUnavailable(c, "Could not read progress")
		}
		result = append(result, fiber.Map{
			"enrollment": e,
			"student": fiber.Map{
				"id":        student.ID,
				"username":  student.Username,
				"firstName": student.FirstName,
				"lastName":  student.LastName,
				"email":     student.Email,
			},
			"progress":     snapshot.ProgressPercentage,
			"lastAccessed": snapshot.LastAccessed,
			"isCompleted":  snapshot.ProgressPercentage == 100,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}
