package review

import (
	"context"
	"errors"
	"math"
	"time"

	expertRepo "equipass/database/repository/expert"
	"equipass/models"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RecomputeExpertRating refreshes the expert's persisted aggregates by a
// full rescan of the published-review set. An empty set leaves the prior
// aggregates in place rather than resetting them.
func (s *DefaultReviewService) RecomputeExpertRating(ctx context.Context, expertID string) error {
	reviews, err := s.Repo.FindPublishedByExpert(expertID, 0)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}

	var sum int
	for _, rev := range reviews {
		sum += rev.OverallRating
	}

	exp, err := s.ExpertRepo.GetByID(expertID)
	if err != nil {
		if errors.Is(err, expertRepo.ErrNotFound) {
			return NotFoundError{Entity: "expert", ID: expertID}
		}
		return err
	}
	exp.AvgRating = round2(float64(sum) / float64(len(reviews)))
	exp.TotalReviews = len(reviews)
	exp.UpdatedAt = time.Now()
	return s.ExpertRepo.Update(exp)
}

// categoryOf extracts the named optional dimension from a review.
var categoryOf = map[string]func(*models.Review) *int{
	"quality":         func(r *models.Review) *int { return r.QualityRating },
	"communication":   func(r *models.Review) *int { return r.CommunicationRating },
	"punctuality":     func(r *models.Review) *int { return r.PunctualityRating },
	"professionalism": func(r *models.Review) *int { return r.ProfessionalismRating },
	"value":           func(r *models.Review) *int { return r.ValueRating },
}

// GetExpertRatingSummary reads the persisted aggregates and computes the
// distribution and category averages fresh from the published set. Each
// category averages only the reviews that scored that dimension.
func (s *DefaultReviewService) GetExpertRatingSummary(ctx context.Context, expertID string) (*models.RatingSummary, error) {
	exp, err := s.ExpertRepo.GetByID(expertID)
	if err != nil {
		if errors.Is(err, expertRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "expert", ID: expertID}
		}
		return nil, err
	}

	reviews, err := s.Repo.FindPublishedByExpert(expertID, 0)
	if err != nil {
		return nil, err
	}

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, rev := range reviews {
		if rev.OverallRating >= 1 && rev.OverallRating <= 5 {
			distribution[rev.OverallRating]++
		}
	}

	averages := make(map[string]float64, len(categoryOf))
	for name, get := range categoryOf {
		var sum, n int
		for i := range reviews {
			if v := get(&reviews[i]); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			averages[name] = 0
			continue
		}
		averages[name] = round2(float64(sum) / float64(n))
	}

	return &models.RatingSummary{
		ExpertID:           expertID,
		AvgRating:          exp.AvgRating,
		TotalReviews:       exp.TotalReviews,
		CompletedServices:  exp.CompletedServices,
		RatingDistribution: distribution,
		CategoryAverages:   averages,
	}, nil
}
