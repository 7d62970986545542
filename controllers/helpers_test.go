package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"project/config"
	"project/database"
	"project/models"
	"project/routes"
	"project/utils"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := database.OpenTest()
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:           "testsecret",
		StoreTimeoutSeconds: 5,
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)
	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, cfg *config.Config, username, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateJWTToken(user.ID, cfg)
	require.NoError(t, err)
	return user, token
}

// seedCourse creates a course with two lectures, one material and one quiz
// (four work units) and returns it with children loaded.
func seedCourse(t *testing.T, db *gorm.DB, teacherID uint) models.Course {
	t.Helper()

	course := models.Course{Title: "Test Course", TeacherID: teacherID}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "Lecture 1"}).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "Lecture 2"}).Error)
	require.NoError(t, db.Create(&models.Material{CourseID: course.ID, Title: "Course Notes", Type: "pdf"}).Error)
	require.NoError(t, db.Create(&models.Quiz{CourseID: course.ID, Title: "Quiz 1"}).Error)

	require.NoError(t, db.Preload("Lectures").Preload("Materials").Preload("Quizzes").First(&course, course.ID).Error)
	return course
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func progressPath(userID, courseID uint) string {
	return fmt.Sprintf("/api/progress/%d/%d", userID, courseID)
}
