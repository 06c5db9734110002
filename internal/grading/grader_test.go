package grading

import (
	"context"
	"errors"
	"testing"

	"stargazer/internal/catalog"
)

func orionQuiz() *catalog.Quiz {
	return &catalog.Quiz{
		Group:    "Orion",
		Question: "How many stars form Orion's Belt?",
		Choices:  map[string]string{"A": "3", "B": "4"},
		Correct:  "A",
	}
}

func TestGradeCorrectAnswerIgnoresCaseAndSpace(t *testing.T) {
	g := NewGrader()
	res, err := g.Grade(context.Background(), Request{ObjectID: "orion", Quiz: orionQuiz(), Choice: " a "})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct {
		t.Fatalf("expected correct, got %#v", res)
	}
	if res.Choice != "A" || res.Expected != "A" {
		t.Fatalf("unexpected choice/expected: %#v", res)
	}
	if res.Kind != ResultKind || res.SchemaVersion != SchemaVersion {
		t.Fatalf("unexpected result envelope: %#v", res)
	}
	if res.Message != "Correct! 3" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestGradeWrongAnswerReportsExpected(t *testing.T) {
	g := NewGrader()
	res, err := g.Grade(context.Background(), Request{ObjectID: "orion", Quiz: orionQuiz(), Choice: "B"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Fatalf("expected incorrect result")
	}
	if res.Expected != "A" {
		t.Fatalf("expected A, got %q", res.Expected)
	}
	if res.Message != "Not quite. The answer is A: 3" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestGradeRejectsBadInput(t *testing.T) {
	g := NewGrader()
	ctx := context.Background()

	if _, err := g.Grade(ctx, Request{ObjectID: "orion", Quiz: orionQuiz(), Choice: "  "}); !errors.Is(err, ErrEmptyChoice) {
		t.Fatalf("expected ErrEmptyChoice, got %v", err)
	}
	if _, err := g.Grade(ctx, Request{ObjectID: "orion", Quiz: orionQuiz(), Choice: "C"}); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected ErrUnknownChoice, got %v", err)
	}
	if _, err := g.Grade(ctx, Request{ObjectID: "orion", Choice: "A"}); !errors.Is(err, ErrNoQuiz) {
		t.Fatalf("expected ErrNoQuiz, got %v", err)
	}
}

func TestGradeHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewGrader().Grade(ctx, Request{ObjectID: "orion", Quiz: orionQuiz(), Choice: "A"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
