package course

import "gorm.io/gorm"

// Chapter represents an ordered section within a course. OrderIndex values
// among the chapters of one course always form a contiguous 1..N sequence.
type Chapter struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order" gorm:"column:order_index;default:0"`
}
