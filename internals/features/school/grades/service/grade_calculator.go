package service

// Letter: nilai huruf rapor (A–E).
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterE Letter = "E"
)

type PassStatusValue string

const (
	PassStatusPass             PassStatusValue = "Pass"
	PassStatusNeedsImprovement PassStatusValue = "Needs Improvement"
)

// DefaultPassThreshold: KKM default.
const DefaultPassThreshold = 75.0

// GradeLetter: ≥85 A, ≥75 B, ≥65 C, ≥55 D, selain itu E.
// Tidak memvalidasi rentang; caller memastikan 0–100.
func GradeLetter(score float64) Letter {
	switch {
	case score >= 85:
		return LetterA
	case score >= 75:
		return LetterB
	case score >= 65:
		return LetterC
	case score >= 55:
		return LetterD
	default:
		return LetterE
	}
}

// PassStatus: score >= threshold → Pass. Threshold opsional (default 75).
func PassStatus(score float64, threshold ...float64) PassStatusValue {
	t := DefaultPassThreshold
	if len(threshold) > 0 {
		t = threshold[0]
	}
	if score >= t {
		return PassStatusPass
	}
	return PassStatusNeedsImprovement
}
