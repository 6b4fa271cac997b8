package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionOption is one selectable answer of a quiz question. The engine
// never inspects Text; only ID is matched against CorrectAnswer.
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question belongs to a QUIZ lesson. Options holds a JSON array of
// QuestionOption; CorrectAnswer is the id of the correct option.
type Question struct {
	gorm.Model
	LessonID      uint           `json:"lesson_id" gorm:"index;not null"`
	QuestionText  string         `json:"question_text" gorm:"not null"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer string         `json:"correct_answer"`
}
