package service

// Mastery policy. A lesson is mastered when the user answers the three most
// recent attempts correctly, or accumulates enough volume at high accuracy.
const (
	MasteryStreakLength = 3
	MasteryMinAttempts  = 10
	MasteryMinAccuracy  = 0.9
)

// EvaluateMastery decides mastery from the post-attempt aggregate and the
// newest-first correctness window for the same (user, lesson). Fewer than
// three recorded attempts simply fails the streak clause. The result only
// feeds a guarded set-true update, so mastery can never be revoked here.
func EvaluateMastery(attempts, correct int, accuracy float64, recent []bool) bool {
	if len(recent) >= MasteryStreakLength {
		streak := true
		for _, ok := range recent[:MasteryStreakLength] {
			if !ok {
				streak = false
				break
			}
		}
		if streak {
			return true
		}
	}

	return attempts >= MasteryMinAttempts && accuracy >= MasteryMinAccuracy
}
