package grading

import (
	"context"
	"fmt"
	"strings"
)

type DefaultGrader struct {
	passMessage string
	failMessage string
}

func NewGrader() *DefaultGrader {
	return &DefaultGrader{
		passMessage: "Correct! %s",
		failMessage: "Not quite. The answer is %s: %s",
	}
}

func (g *DefaultGrader) Grade(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.Quiz == nil {
		return Result{}, fmt.Errorf("grade %s: %w", req.ObjectID, ErrNoQuiz)
	}
	choice := normalizeChoice(req.Choice)
	if choice == "" {
		return Result{}, fmt.Errorf("grade %s: %w", req.ObjectID, ErrEmptyChoice)
	}
	if _, ok := req.Quiz.Choices[choice]; !ok {
		return Result{}, fmt.Errorf("grade %s: %q: %w", req.ObjectID, req.Choice, ErrUnknownChoice)
	}

	expected := normalizeChoice(req.Quiz.Correct)
	res := Result{
		Kind:          ResultKind,
		SchemaVersion: SchemaVersion,
		ObjectID:      req.ObjectID,
		Choice:        choice,
		Expected:      expected,
		Correct:       choice == expected,
	}
	if res.Correct {
		res.Message = fmt.Sprintf(g.passMessage, req.Quiz.Choices[expected])
	} else {
		res.Message = fmt.Sprintf(g.failMessage, expected, req.Quiz.Choices[expected])
	}
	return res, nil
}

func normalizeChoice(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
