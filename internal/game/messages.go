package game

// scoreMessages are ordered by descending threshold
var scoreMessages = []struct {
	min     int
	message string
}{
	{10, "PERFECT! You're the ultimate fan!"},
	{8, "Amazing! You really know your music!"},
	{6, "Solid work, true fan energy!"},
	{4, "Not bad! Keep streaming!"},
	{2, "Time to revisit the discography!"},
	{0, "Don't give up!"},
}

// CelebrateScore is the lowest final score that earns a celebration
const CelebrateScore = 8

// ScoreMessage returns the message of the highest threshold not above score
func ScoreMessage(score int) string {
	for _, m := range scoreMessages {
		if score >= m.min {
			return m.message
		}
	}
	return scoreMessages[len(scoreMessages)-1].message
}
