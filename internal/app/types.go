package app

import (
	"errors"

	"stargazer/internal/catalog"
	"stargazer/internal/grading"
	"stargazer/internal/progress"
)

var (
	ErrUnknownObject = errors.New("unknown object")
	ErrPhotoTooLarge = errors.New("photo is larger than 10 MiB")
)

// ObjectSummary is one catalog row with the user's marks on it.
type ObjectSummary struct {
	Object      catalog.Object
	Favorite    bool
	Observation progress.Observation
}

// ObjectView is everything the detail screen shows for one object.
type ObjectView struct {
	Object      catalog.Object
	Favorite    bool
	Observation progress.Observation
	Saved       bool
	QuizPassed  bool
	LastAnswer  *grading.Result
	Unlocked    []progress.AchievementID
}

// Summary is the progress overview shown on the home screen and by the
// progress command.
type Summary struct {
	Counters     progress.Counters
	Achievements progress.Set
	CatalogSize  int
	QuizTotal    int
	Favorites    int
	Notes        int
}

// QuizOutcome pairs the graded answer with the tracker result.
type QuizOutcome struct {
	Result  grading.Result
	Outcome progress.Outcome
}
