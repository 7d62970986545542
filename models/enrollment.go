package models

import "gorm.io/gorm"

type Enrollment struct {
	gorm.Model
	UserID   uint   `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"userId"`
	CourseID uint   `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"courseId"`
	Status   string `gorm:"default:ENROLLED" json:"status"` // ENROLLED, COMPLETED
}
