package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	expertRepo "equipass/database/repository/expert"
	reviewRepo "equipass/database/repository/review"
	recordRepo "equipass/database/repository/servicerecord"
	"equipass/models"
	"equipass/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	Repo       reviewRepo.ReviewRepository
	RecordRepo recordRepo.ServiceRecordRepository
	ExpertRepo expertRepo.ExpertRepository
}

func validateRating(name string, value int) error {
	if value < 1 || value > 5 {
		return ValidationError{Message: fmt.Sprintf("%s must be between 1 and 5, got %d", name, value)}
	}
	return nil
}

func (s *DefaultReviewService) CreateReview(ctx context.Context, input models.CreateReviewInput) (*models.Review, error) {
	if err := validateRating("overallRating", input.OverallRating); err != nil {
		return nil, err
	}
	categories := map[string]*int{
		"qualityRating":         input.QualityRating,
		"communicationRating":   input.CommunicationRating,
		"punctualityRating":     input.PunctualityRating,
		"professionalismRating": input.ProfessionalismRating,
		"valueRating":           input.ValueRating,
	}
	for name, value := range categories {
		if value == nil {
			continue
		}
		if err := validateRating(name, *value); err != nil {
			return nil, err
		}
	}

	record, err := s.RecordRepo.GetByID(input.ServiceRecordID)
	if err != nil {
		if errors.Is(err, recordRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "service record", ID: input.ServiceRecordID}
		}
		return nil, err
	}
	if record.CustomerUserID != input.ReviewerID {
		return nil, ForbiddenError{Message: "only the record's customer can review it"}
	}
	if record.Status != models.RecordStatusCompleted {
		return nil, InvalidStateError{Message: fmt.Sprintf("cannot review a %s record", record.Status)}
	}
	if record.IsReviewed {
		return nil, ConflictError{Message: "service record already reviewed"}
	}

	now := time.Now()
	rev := &models.Review{
		ID:                    uuid.New().String(),
		ServiceRecordID:       record.ID,
		ExpertID:              record.ExpertID,
		ReviewerID:            input.ReviewerID,
		OverallRating:         input.OverallRating,
		QualityRating:         input.QualityRating,
		CommunicationRating:   input.CommunicationRating,
		PunctualityRating:     input.PunctualityRating,
		ProfessionalismRating: input.ProfessionalismRating,
		ValueRating:           input.ValueRating,
		Title:                 input.Title,
		Comment:               input.Comment,
		Pros:                  input.Pros,
		Cons:                  input.Cons,
		Status:                models.ReviewStatusPublished,
		IsVerified:            true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.Repo.Create(rev); err != nil {
		return nil, err
	}

	record.IsReviewed = true
	record.UpdatedAt = now
	if err := s.RecordRepo.Update(record); err != nil {
		return nil, err
	}

	if err := s.RecomputeExpertRating(ctx, record.ExpertID); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("review published",
		zap.String("reviewId", rev.ID),
		zap.String("recordId", record.ID),
		zap.Int("overallRating", rev.OverallRating))
	return rev, nil
}

func (s *DefaultReviewService) GetReviewsByExpert(ctx context.Context, expertID string, limit int64) ([]models.Review, error) {
	return s.Repo.FindPublishedByExpert(expertID, limit)
}

func (s *DefaultReviewService) RespondToReview(ctx context.Context, reviewID, expertID, responseText string) (*models.Review, error) {
	rev, err := s.Repo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "review", ID: reviewID}
		}
		return nil, err
	}
	if rev.ExpertID != expertID {
		return nil, ForbiddenError{Message: "review belongs to another expert"}
	}
	if rev.ExpertResponse != "" {
		return nil, ConflictError{Message: "review already responded to"}
	}

	now := time.Now()
	rev.ExpertResponse = responseText
	rev.ExpertRespondedAt = &now
	rev.UpdatedAt = now
	if err := s.Repo.Update(rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// FlagReview is unconditional at this layer; moderation permissions are the
// API boundary's concern. Flagging is the only path that shrinks the
// published set after the fact.
func (s *DefaultReviewService) FlagReview(ctx context.Context, reviewID, reason, moderatorUserID string) (*models.Review, error) {
	rev, err := s.Repo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "review", ID: reviewID}
		}
		return nil, err
	}

	now := time.Now()
	rev.Status = models.ReviewStatusFlagged
	rev.FlaggedReason = reason
	rev.ModeratedBy = moderatorUserID
	rev.ModeratedAt = &now
	rev.UpdatedAt = now
	if err := s.Repo.Update(rev); err != nil {
		return nil, err
	}

	if err := s.RecomputeExpertRating(ctx, rev.ExpertID); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *DefaultReviewService) VoteReview(ctx context.Context, reviewID string, isHelpful bool) (*models.Review, error) {
	rev, err := s.Repo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "review", ID: reviewID}
		}
		return nil, err
	}

	field := "notHelpfulCount"
	if isHelpful {
		field = "helpfulCount"
	}
	if err := s.Repo.Increment(rev.ID, field, 1); err != nil {
		return nil, err
	}
	if isHelpful {
		rev.HelpfulCount++
	} else {
		rev.NotHelpfulCount++
	}
	return rev, nil
}
