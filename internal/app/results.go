package app

import (
	"math"

	"mock-interview-service/internal/domain"
)

// Summarize builds the end-of-interview report from a snapshot.
func Summarize(snap domain.Snapshot) domain.Results {
	byID := make(map[int]domain.Question, len(snap.Questions))
	maxPossible := 0
	for _, q := range snap.Questions {
		byID[q.ID] = q
		maxPossible += q.MaxScore
	}

	percentage := 0
	if maxPossible > 0 {
		percentage = int(math.Round(float64(snap.TotalScore) / float64(maxPossible) * 100))
	}

	results := domain.Results{
		SessionID:        snap.SessionID,
		Complete:         snap.Complete,
		TotalScore:       snap.TotalScore,
		MaxPossibleScore: maxPossible,
		Percentage:       percentage,
		Band:             band(percentage),
		Verdict:          verdict(percentage),
		Questions:        make([]domain.QuestionResult, 0, len(snap.Responses)),
	}
	for _, r := range snap.Responses {
		q := byID[r.QuestionID]
		results.Questions = append(results.Questions, domain.QuestionResult{
			Question: q,
			Response: r,
			Rating:   rating(r.Score, q.MaxScore),
		})
	}
	return results
}

func verdict(percentage int) string {
	switch {
	case percentage >= 90:
		return "Excellent! You've demonstrated outstanding skills and communication abilities."
	case percentage >= 75:
		return "Very good! You show strong capabilities with some room for improvement."
	case percentage >= 60:
		return "Good effort. Consider developing some areas to strengthen your overall performance."
	case percentage >= 40:
		return "You've made a start but need significant improvement in key areas."
	default:
		return "There's substantial room for growth. Consider practicing more before your next interview."
	}
}

func band(percentage int) domain.Band {
	switch {
	case percentage >= 80:
		return domain.BandExcellent
	case percentage >= 60:
		return domain.BandGood
	case percentage >= 40:
		return domain.BandFair
	default:
		return domain.BandPoor
	}
}

func rating(score, maxScore int) domain.Rating {
	if maxScore <= 0 {
		maxScore = 1
	}
	ratio := float64(score) / float64(maxScore)
	switch {
	case ratio >= 0.7:
		return domain.RatingStrong
	case ratio >= 0.4:
		return domain.RatingFair
	default:
		return domain.RatingWeak
	}
}
