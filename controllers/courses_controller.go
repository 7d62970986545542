package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"project/config"
	"project/models"
	"project/utils"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// GetCourses godoc
// @Summary List all courses
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := cc.DB.Preload("Lectures").Preload("Materials").Preload("Quizzes").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

// GetCourseDetails godoc
// @Summary Get one course with its content lists
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	err = cc.DB.Preload("Lectures").Preload("Materials").Preload("Quizzes.Questions").
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, course)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	teacherID := c.Locals("userId").(uint)

	type CourseInput struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ThumbnailURL string `json:"thumbnailUrl"`
	}
	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		TeacherID:    teacherID,
		ThumbnailURL: input.ThumbnailURL,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.SuccessMessage(c, fiber.StatusCreated, "Course created", course)
}

// AddLecture godoc
// @Summary Add a lecture to a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lectures [post]
func (cc *CoursesController) AddLecture(c *fiber.Ctx) error {
	course, err := cc.loadOwnCourse(c)
	if course == nil {
		return err
	}

	type LectureInput struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		VideoURL      string `json:"videoUrl"`
		Duration      string `json:"duration"`
		SequenceOrder int    `json:"sequenceOrder"`
	}
	var input LectureInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	lecture := models.Lecture{
		CourseID:      course.ID,
		Title:         input.Title,
		Description:   input.Description,
		VideoURL:      input.VideoURL,
		Duration:      input.Duration,
		SequenceOrder: input.SequenceOrder,
	}
	if err := cc.DB.Create(&lecture).Error; err != nil {
		return utils.InternalServerError(c, "Could not add lecture")
	}

	return utils.SuccessMessage(c, fiber.StatusCreated, "Lecture added", lecture)
}

// AddMaterial godoc
// @Summary Add a material to a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/materials [post]
func (cc *CoursesController) AddMaterial(c *fiber.Ctx) error {
	course, err := cc.loadOwnCourse(c)
	if course == nil {
		return err
	}

	type MaterialInput struct {
		Title string `json:"title"`
		Type  string `json:"type"`
		URL   string `json:"url"`
	}
	var input MaterialInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if input.Type != "video" && input.Type != "pdf" {
		return utils.BadRequest(c, "Type must be video or pdf")
	}

	material := models.Material{
		CourseID: course.ID,
		Title:    input.Title,
		Type:     input.Type,
		URL:      input.URL,
	}
	if err := cc.DB.Create(&material).Error; err != nil {
		return utils.InternalServerError(c, "Could not add material")
	}

	return utils.SuccessMessage(c, fiber.StatusCreated, "Material added", material)
}

// AddQuiz godoc
// @Summary Add a quiz with its questions to a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/quizzes [post]
func (cc *CoursesController) AddQuiz(c *fiber.Ctx) error {
	course, err := cc.loadOwnCourse(c)
	if course == nil {
		return err
	}

	type QuestionInput struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correctAnswer"`
		Points        int      `json:"points"`
	}
	type QuizInput struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		TimeLimit   int             `json:"timeLimit"`
		Questions   []QuestionInput `json:"questions"`
	}
	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	quiz := models.Quiz{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: input.Description,
		TimeLimit:   input.TimeLimit,
	}
	for _, q := range input.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return utils.BadRequest(c, "Correct answer must index an option")
		}
		points := q.Points
		if points == 0 {
			points = 1
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Question:      q.Question,
			Options:       datatypes.NewJSONSlice(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Points:        points,
		})
	}
	if err := cc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not add quiz")
	}

	return utils.SuccessMessage(c, fiber.StatusCreated, "Quiz added", quiz)
}

// loadOwnCourse resolves the :id param to a course owned by the
// authenticated teacher. On failure the response has already been written
// and the returned course is nil; callers return the error as-is.
func (cc *CoursesController) loadOwnCourse(c *fiber.Ctx) (*models.Course, error) {
	teacherID := c.Locals("userId").(uint)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Course not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}
	if course.TeacherID != teacherID {
		return nil, utils.Forbidden(c, "Course belongs to another teacher")
	}
	return &course, nil
}
