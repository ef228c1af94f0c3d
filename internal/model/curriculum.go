package model

// QuestionType defines the type of a curriculum question
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeFreeText       QuestionType = "free_text"
)

// BankQuestion is one question inside a curriculum module. Only
// multiple-choice questions are eligible for multiplayer games.
type BankQuestion struct {
	Prompt      string       `json:"prompt" bson:"prompt"`
	Options     []string     `json:"options,omitempty" bson:"options,omitempty"`
	AnswerIndex int          `json:"answerIndex" bson:"answerIndex"`
	Type        QuestionType `json:"type" bson:"type"`
}

// CurriculumModule groups an ordered list of questions for one topic
type CurriculumModule struct {
	ID        string         `json:"id" bson:"_id"`
	Title     string         `json:"title" bson:"title"`
	Language  string         `json:"language" bson:"language"`
	Questions []BankQuestion `json:"questions" bson:"questions"`
}
