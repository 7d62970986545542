package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteLectureEndpoint(t *testing.T) {
	app, db, cfg := newTestApp(t)
	teacher, _ := createUser(t, db, cfg, "teacher1", "teacher")
	student, token := createUser(t, db, cfg, "student1", "student")
	course := seedCourse(t, db, teacher.ID)

	payload := fiber.Map{
		"userId":    student.ID,
		"courseId":  course.ID,
		"lectureId": itoa(course.Lectures[0].ID),
	}

	resp, body := doJSON(t, app, "POST", "/api/progress/lecture", token, payload)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lecture marked as completed", body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(25), data["progressPercentage"]) // 1 of 4 units
	assert.Equal(t, false, data["wasAlreadyCompleted"])
	assert.Len(t, data["completedLectures"], 1)

	// Repeating the event reports it and leaves the state alone.
	resp, body = doJSON(t, app, "POST", "/api/progress/lecture", token, payload)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lecture was already completed", body["message"])

	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(25), data["progressPercentage"])
	assert.Equal(t, true, data["wasAlreadyCompleted"])
	assert.Len(t, data["completedLectures"], 1)
}

func TestCompleteMaterialEndpoint(t *testing.T) {
	app, db, cfg := newTestApp(t)
	teacher, _ := createUser(t, db, cfg, "teacher1", "teacher")
	student, token := createUser(t, db, cfg, "student1", "student")
	course := seedCourse(t, db, teacher.ID)

	resp, body := doJSON(t, app, "POST", "/api/progress/material", token, fiber.Map{
		"userId":        student.ID,
		"courseId":      course.ID,
		"materialTitle": course.Materials[0].Title,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(25), data["progressPercentage"])
	assert.Equal(t, []interface{}{"Course Notes"}, data["completedMaterials"])
}

func TestCompleteQuizEndpointMaxScoreWins(t *testing.T) {
	app, db, cfg := newTestApp(t)
	teacher, _ := createUser(t, db, cfg, "teacher1", "teacher")
	student, token := createUser(t, db, cfg, "student1", "student")
	course := seedCourse(t, db, teacher.ID)

	quizID := itoa(course.Quizzes[0].ID)
	post := func(score int) map[string]interface{} {
		resp, body := doJSON(t, app, "POST", "/api/progress/quiz", token, fiber.Map{
			"userId":   student.ID,
			"courseId": course.ID,
			"quizId":   quizID,
			"score":    score,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		return body
	}

	body := post(60)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["wasUpdated"])
	assert.Equal(t, float64(25), data["progressPercentage"])

	body = post(40)
	assert.Equal(t, "Quiz was already completed with better score", body["message"])
	data = body["data"].(map[string]interface{})
	assert.Equal(t, false, data["wasUpdated"])
	quizzes := data["completedQuizzes"].([]interface{})
	require.Len(t, quizzes, 1)
	assert.Equal(t, float64(60), quizzes[0].(map[string]interface{})["score"])

	body = post(90)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, true, data["wasUpdated"])
	quizzes = data["completedQuizzes"].([]interface{})
	require.Len(t, quizzes, 1)
	assert.Equal(t, float64(90), quizzes[0].(map[string]interface{})["score"])
}

func TestQuizScoreValidation(t *testing.T) {
	app, db, cfg := newTestApp(t)
	teacher, _ := createUser(t, db, cfg, "teacher1", "teacher")
	student, token := createUser(t, db, cfg, "student1", "student")
	course := seedCourse(t, db, teacher.ID)

	resp, body := doJSON(t, app, "POST", "/api/progress/quiz", token, fiber.Map{
		"userId":   student.ID,
		"courseId": course.ID,
		"quizId":   itoa(course.Quizzes[0].ID),
		"score":    -5,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = doJSON(t, app, "POST", "/api/progress/quiz", token, fiber.Map{
		"userId":   student.ID,
		"courseId": course.ID,
		"score":    50, // quizId missing
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestFullCompletionSetsWatermark(t *testing.T) {
	app, db, cfg := newTestApp(t)
	teacher, _ := createUser(t, db, cfg, "teacher1", "teacher")
	student, token := createUser(t, db, cfg, "student1", "student")
	course := seedCourse(t, db, teacher.ID)

	for _, lecture := range course.Lectures {
		resp, _ := doJSON(t, app, "POST", "/api/progress/lecture", token, fiber.Map{
			"userId": student.ID, "courseId": course.ID, "lectureId": itoa(lecture.ID),
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	doJSON(t, app, "POST", "/api/progress/material", token, fiber.Map{
		"userId": student.ID, "courseId": course.ID, "materialTitle": course.Materials[0].Title,
	})
	_, body := doJSON(t, app, "POST", "/api/progress/quiz", token, fiber.Map{
		"userId": student.ID, "courseId": course.ID, "quizId": itoa(course.Quizzes[0].ID), "score": 80,
	})

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["progressPercentage"])
	assert.Equal(t, true, data["isCompleted"])

	resp, body := doJSON(t, app, "GET", progressPath(student.ID, course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["progressPercentage"])
	assert.NotNil(t, data["completedAt"])
}

func TestGetProgressWithoutEvents(t *testing.T) {
	app, db, cfg := newTestApp(t)
	teacher, _ := createUser(t, db, cfg, "teacher1", "teacher")
	student, token := createUser(t, db, cfg, "student1", "student")
	course := seedCourse(t, db, teacher.ID)

	resp, body := doJSON(t, app, "GET", progressPath(student.ID, course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "absent progress is not an error")

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["progressPercentage"])
	assert.Empty(t, data["completedLectures"])
	assert.Empty(t, data["completedMaterials"])
	assert.Empty(t, data["completedQuizzes"])
	assert.Nil(t, data["startedAt"])
	assert.Nil(t, data["lastAccessed"])
	assert.Nil(t, data["completedAt"])
}

func TestProgressRequiresAuth(t *testing.T) {
	app, db, cfg := newTestApp(t)
	teacher, _ := createUser(t, db, cfg, "teacher1", "teacher")
	course := seedCourse(t, db, teacher.ID)

	resp, _ := doJSON(t, app, "POST", "/api/progress/lecture", "", fiber.Map{
		"userId": 1, "courseId": course.ID, "lectureId": "1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
