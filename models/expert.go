package models

import "time"

// ExpertWorkStatus is an expert's current availability state.
type ExpertWorkStatus string

const (
	WorkStatusIdle      ExpertWorkStatus = "IDLE"
	WorkStatusBooked    ExpertWorkStatus = "BOOKED"
	WorkStatusInService ExpertWorkStatus = "IN_SERVICE"
	WorkStatusRushing   ExpertWorkStatus = "RUSHING"
	WorkStatusOffDuty   ExpertWorkStatus = "OFF_DUTY"
)

// Expert is a registered service expert on the platform.
// AvgRating, TotalReviews, CompletedServices and ActiveServiceCount are
// derived fields maintained by the review and service-record services.
type Expert struct {
	ID           string   `bson:"id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Email        string   `bson:"email" json:"email,omitempty"`
	PhoneNumber  string   `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	CompanyID    string   `bson:"companyId,omitempty" json:"companyId,omitempty"`
	ServiceTypes []string `bson:"serviceTypes" json:"serviceTypes,omitempty"`
	Bio          string   `bson:"bio" json:"bio,omitempty"`
	Location     string   `bson:"location" json:"location,omitempty"`

	WorkStatus         ExpertWorkStatus `bson:"workStatus" json:"workStatus"`
	ActiveServiceCount int              `bson:"activeServiceCount" json:"activeServiceCount"`
	RushingStartedAt   *time.Time       `bson:"rushingStartedAt,omitempty" json:"rushingStartedAt,omitempty"`

	AvgRating         float64 `bson:"avgRating" json:"avgRating"`
	TotalReviews      int     `bson:"totalReviews" json:"totalReviews"`
	CompletedServices int     `bson:"completedServices" json:"completedServices"`

	FCMToken  string    `bson:"fcmToken" json:"-"`
	TokenHash string    `bson:"tokenHash" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}
