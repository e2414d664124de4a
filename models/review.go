package models

import "time"

// ReviewStatus is the moderation state of a review. Only PUBLISHED reviews
// count towards an expert's rating aggregates.
type ReviewStatus string

const (
	ReviewStatusPublished ReviewStatus = "PUBLISHED"
	ReviewStatusFlagged   ReviewStatus = "FLAGGED"
	ReviewStatusRemoved   ReviewStatus = "REMOVED"
)

// Review is a customer's rating of a completed service record.
// Exactly one review exists per record.
type Review struct {
	ID              string `bson:"id" json:"id"`
	ServiceRecordID string `bson:"serviceRecordId" json:"serviceRecordId"`
	ExpertID        string `bson:"expertId" json:"expertId"`
	ReviewerID      string `bson:"reviewerId" json:"reviewerId"`

	OverallRating int `bson:"overallRating" json:"overallRating"` // 1-5

	// Optional category dimensions, each 1-5 when present.
	QualityRating         *int `bson:"qualityRating,omitempty" json:"qualityRating,omitempty"`
	CommunicationRating   *int `bson:"communicationRating,omitempty" json:"communicationRating,omitempty"`
	PunctualityRating     *int `bson:"punctualityRating,omitempty" json:"punctualityRating,omitempty"`
	ProfessionalismRating *int `bson:"professionalismRating,omitempty" json:"professionalismRating,omitempty"`
	ValueRating           *int `bson:"valueRating,omitempty" json:"valueRating,omitempty"`

	Title   string   `bson:"title" json:"title,omitempty"`
	Comment string   `bson:"comment" json:"comment,omitempty"`
	Pros    []string `bson:"pros,omitempty" json:"pros,omitempty"`
	Cons    []string `bson:"cons,omitempty" json:"cons,omitempty"`

	Status        ReviewStatus `bson:"status" json:"status"`
	IsVerified    bool         `bson:"isVerified" json:"isVerified"`
	FlaggedReason string       `bson:"flaggedReason,omitempty" json:"flaggedReason,omitempty"`
	ModeratedBy   string       `bson:"moderatedBy,omitempty" json:"moderatedBy,omitempty"`
	ModeratedAt   *time.Time   `bson:"moderatedAt,omitempty" json:"moderatedAt,omitempty"`

	ExpertResponse    string     `bson:"expertResponse,omitempty" json:"expertResponse,omitempty"`
	ExpertRespondedAt *time.Time `bson:"expertRespondedAt,omitempty" json:"expertRespondedAt,omitempty"`

	HelpfulCount    int `bson:"helpfulCount" json:"helpfulCount"`
	NotHelpfulCount int `bson:"notHelpfulCount" json:"notHelpfulCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// CreateReviewInput carries the customer's submission for a completed record.
type CreateReviewInput struct {
	ServiceRecordID string `json:"serviceRecordId" binding:"required"`
	ReviewerID      string `json:"-"`
	OverallRating   int    `json:"overallRating" binding:"required"`

	QualityRating         *int `json:"qualityRating"`
	CommunicationRating   *int `json:"communicationRating"`
	PunctualityRating     *int `json:"punctualityRating"`
	ProfessionalismRating *int `json:"professionalismRating"`
	ValueRating           *int `json:"valueRating"`

	Title   string   `json:"title"`
	Comment string   `json:"comment"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

// RatingSummary is the aggregate view of an expert's published reviews.
// RatingDistribution always carries keys 1 through 5; CategoryAverages
// reports 0 for dimensions no review has scored.
type RatingSummary struct {
	ExpertID           string             `json:"expertId"`
	AvgRating          float64            `json:"avgRating"`
	TotalReviews       int                `json:"totalReviews"`
	CompletedServices  int                `json:"completedServices"`
	RatingDistribution map[int]int        `json:"ratingDistribution"`
	CategoryAverages   map[string]float64 `json:"categoryAverages"`
}
