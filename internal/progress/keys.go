package progress

const (
	KeyAchievements = "@achievements_v1"
	KeyCounters     = "@ach_counters_v1"
	KeyQuizPassed   = "@quiz_passed_v1"
)

type observationKeys struct {
	Observed string
	Rating   string
	Note     string
}

func keysFor(objectID string) observationKeys {
	return observationKeys{
		Observed: "obs_" + objectID + "_observed",
		Rating:   "obs_" + objectID + "_rating",
		Note:     "obs_" + objectID + "_note",
	}
}
