package grading

import (
	"errors"

	"stargazer/internal/catalog"
)

const (
	ResultKind    = "quiz_result"
	SchemaVersion = 1
)

var (
	ErrNoQuiz        = errors.New("object has no quiz")
	ErrEmptyChoice   = errors.New("no answer chosen")
	ErrUnknownChoice = errors.New("answer is not one of the choices")
)

type Request struct {
	ObjectID string
	Quiz     *catalog.Quiz
	Choice   string
}

type Result struct {
	Kind          string `json:"kind"`
	SchemaVersion int    `json:"schema_version"`

	ObjectID string `json:"object_id"`
	Choice   string `json:"choice"`
	Expected string `json:"expected"`
	Correct  bool   `json:"correct"`
	Message  string `json:"message,omitempty"`
}
