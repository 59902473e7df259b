package types

import (
  "time"
  "github.com/google/uuid"
)

type ResponseImportance string

const (
  ImportanceIrrelevant ResponseImportance = "irrelevant"
  ImportanceALittle    ResponseImportance = "a_little"
  ImportanceSomewhat   ResponseImportance = "somewhat"
  ImportanceVery       ResponseImportance = "very"
  ImportanceMandatory  ResponseImportance = "mandatory"
)

// Weight is the agreement-matcher weight attached to the importance level.
func (i ResponseImportance) Weight() float64 {
  switch i {
  case ImportanceIrrelevant:
    return 0
  case ImportanceALittle:
    return 1
  case ImportanceVery:
    return 50
  case ImportanceMandatory:
    return 250
  default:
    return 10
  }
}

// Response is one user's answer to one question. The (user, question) pair is
// unique; resubmission updates the row in place.
type Response struct {
  ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
  UserID           uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:ux_response_user_question;index;column:user_id" json:"user_id"`
  QuestionID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:ux_response_user_question;index;column:question_id" json:"question_id"`
  Question         *Question           `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`
  Category         QuestionCategory    `gorm:"index;not null;column:category" json:"category"`
  NumericResponse  *int                `gorm:"column:numeric_response" json:"numeric_response,omitempty"`
  TextResponse     string              `gorm:"type:text;column:text_response" json:"text_response,omitempty"`
  Importance       ResponseImportance  `gorm:"column:importance" json:"importance,omitempty"`
  AnsweredAt       time.Time           `gorm:"not null;column:answered_at" json:"answered_at"`
  UpdatedAt        time.Time           `gorm:"not null" json:"updated_at"`
}

func (Response) TableName() string {
  return "assessment_response"
}
