package workflow

// Score bands used for presentation emphasis on AI, match and ATS scores.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// ScoreBand maps a 0-100 score to its presentation band: >= 80 is high,
// 60-79 is medium, below 60 is low.
func ScoreBand(score int) string {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// ScoreBandColor returns the emphasis classes the views attach to each band.
func ScoreBandColor(score int) string {
	switch ScoreBand(score) {
	case BandHigh:
		return "text-green-600 bg-green-50"
	case BandMedium:
		return "text-yellow-600 bg-yellow-50"
	default:
		return "text-red-600 bg-red-50"
	}
}
