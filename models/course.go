package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description"`
	TeacherID    uint   `gorm:"index" json:"teacherId"`
	ThumbnailURL string `json:"thumbnailUrl"`

	Lectures  []Lecture  `json:"lectures"`
	Materials []Material `json:"materials"`
	Quizzes   []Quiz     `json:"quizzes"`
}

type Lecture struct {
	gorm.Model
	CourseID      uint   `gorm:"index;not null" json:"courseId"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `json:"description"`
	VideoURL      string `json:"videoUrl"`
	Duration      string `json:"duration"` // e.g. "12:30"
	SequenceOrder int    `json:"sequenceOrder"`
}

// Material is identified by title within its course; materials carry no
// stable id in completion tracking, so two materials sharing a title are
// indistinguishable there. Known limitation carried over from the catalog
// contract.
type Material struct {
	gorm.Model
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Title    string `gorm:"not null" json:"title"`
	Type     string `json:"type"` // video, pdf
	URL      string `json:"url"`
}

type Quiz struct {
	gorm.Model
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	TimeLimit   int    `json:"timeLimit"` // minutes, 0 means unlimited

	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint                        `gorm:"index;not null" json:"quizId"`
	Question      string                      `gorm:"not null" json:"question"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer int                         `json:"correctAnswer"` // index into Options
	Points        int                         `gorm:"default:1" json:"points"`
}
