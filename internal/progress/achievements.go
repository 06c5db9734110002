package progress

import "fmt"

type AchievementID string

const (
	FullMoon     AchievementID = "full_moon"
	ShootingStar AchievementID = "shooting_star"
	FirstRead    AchievementID = "first_read"
	FirstRating  AchievementID = "first_rating"
	Telescope    AchievementID = "telescope"
	Trophy       AchievementID = "trophy"
	RatingMaster AchievementID = "rating_master"
	QuizWhiz     AchievementID = "quiz_whiz"
	AllQuizzes   AchievementID = "all_quizzes"
)

type Achievement struct {
	ID      AchievementID
	Title   string
	Caption string
}

// Achievements is the fixed catalogue in grid order.
var Achievements = []Achievement{
	{ID: FullMoon, Title: "FULL NIGHT SKY", Caption: "You marked your first celestial object as observed. Welcome to the stars!"},
	{ID: ShootingStar, Title: "SHOOTING STAR", Caption: "You've viewed 5 objects. The sky is opening up to you."},
	{ID: FirstRead, Title: "FIRST READ", Caption: "You opened your first article. Knowledge is your telescope."},
	{ID: FirstRating, Title: "FIRST RATING", Caption: "You rated your first object. Every opinion shapes the cosmos."},
	{ID: Telescope, Title: "TELESCOPE", Caption: "You've observed 15+ objects. You're mapping the heavens."},
	{ID: Trophy, Title: "SKY SEEKER TROPHY", Caption: "You've reached 100% completion in the celestial archive. A true sky seeker!"},
	{ID: RatingMaster, Title: "RATING MASTER", Caption: "You've rated at least 10 objects. A connoisseur of the stars."},
	{ID: QuizWhiz, Title: "QUIZ WHIZ", Caption: "You passed your first quiz. Your journey of understanding begins."},
	{ID: AllQuizzes, Title: "ALL QUIZZES DONE", Caption: "You've completed all quizzes. You now read the sky like a story."},
}

var achievementIndex = func() map[AchievementID]int {
	m := make(map[AchievementID]int, len(Achievements))
	for i, a := range Achievements {
		m[a.ID] = i
	}
	return m
}()

func Lookup(id AchievementID) (Achievement, bool) {
	i, ok := achievementIndex[id]
	if !ok {
		return Achievement{}, false
	}
	return Achievements[i], true
}

func (id AchievementID) Valid() bool {
	_, ok := achievementIndex[id]
	return ok
}

func (id AchievementID) Title() string {
	if a, ok := Lookup(id); ok {
		return a.Title
	}
	return string(id)
}

func ParseAchievementID(s string) (AchievementID, error) {
	id := AchievementID(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAchievement, s)
	}
	return id, nil
}
