package progress

type Trigger string

const (
	TriggerView       Trigger = "view"
	TriggerSave       Trigger = "save"
	TriggerQuiz       Trigger = "quiz"
	TriggerCompletion Trigger = "completion"
)

const (
	ShootingStarViews = 5
	TelescopeObserved = 15
	RatingMasterRated = 10
	TrophyCompletion  = 100
	QuizWhizPassed    = 1
)

// Transition is what a rule sees: the counters after the change and, for
// saves, the observation before and after.
type Transition struct {
	Counters  Counters
	Before    Observation
	After     Observation
	QuizTotal int
}

type Rule struct {
	ID       AchievementID
	Triggers []Trigger
	When     func(Transition) bool
}

func (r Rule) listens(t Trigger) bool {
	for _, x := range r.Triggers {
		if x == t {
			return true
		}
	}
	return false
}

// DefaultRules is the unlock table. Order decides the order unlocks are
// reported in.
var DefaultRules = []Rule{
	{ID: FirstRead, Triggers: []Trigger{TriggerView}, When: func(Transition) bool { return true }},
	{ID: ShootingStar, Triggers: []Trigger{TriggerView}, When: func(t Transition) bool {
		return t.Counters.Viewed >= ShootingStarViews
	}},
	{ID: FullMoon, Triggers: []Trigger{TriggerSave}, When: func(t Transition) bool {
		return !t.Before.Observed && t.After.Observed
	}},
	{ID: FirstRating, Triggers: []Trigger{TriggerSave}, When: func(t Transition) bool {
		return t.Before.Rating == 0 && t.After.Rating > 0
	}},
	{ID: Telescope, Triggers: []Trigger{TriggerSave}, When: func(t Transition) bool {
		return t.Counters.Observed >= TelescopeObserved
	}},
	{ID: RatingMaster, Triggers: []Trigger{TriggerSave}, When: func(t Transition) bool {
		return t.Counters.Rated >= RatingMasterRated
	}},
	{ID: Trophy, Triggers: []Trigger{TriggerSave, TriggerCompletion}, When: func(t Transition) bool {
		return t.Counters.Completion == TrophyCompletion
	}},
	{ID: QuizWhiz, Triggers: []Trigger{TriggerQuiz}, When: func(t Transition) bool {
		return t.Counters.Quizzes >= QuizWhizPassed
	}},
	{ID: AllQuizzes, Triggers: []Trigger{TriggerQuiz}, When: func(t Transition) bool {
		return t.QuizTotal > 0 && t.Counters.Quizzes >= t.QuizTotal
	}},
}

// Evaluate returns every achievement whose rule listens to trigger and holds
// for t. It does not consult the ledger.
func Evaluate(rules []Rule, trigger Trigger, t Transition) []AchievementID {
	var out []AchievementID
	for _, r := range rules {
		if r.listens(trigger) && r.When(t) {
			out = append(out, r.ID)
		}
	}
	return out
}
