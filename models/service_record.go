package models

import "time"

// ServiceRecordStatus is the lifecycle state of a service engagement.
type ServiceRecordStatus string

const (
	RecordStatusPending    ServiceRecordStatus = "PENDING"
	RecordStatusInProgress ServiceRecordStatus = "IN_PROGRESS"
	RecordStatusCompleted  ServiceRecordStatus = "COMPLETED"
	RecordStatusCancelled  ServiceRecordStatus = "CANCELLED"
	RecordStatusDisputed   ServiceRecordStatus = "DISPUTED"
)

// ServiceRecord is one engagement between a customer and an expert for a
// specific service request. Records are never deleted; cancellation is a
// terminal status.
type ServiceRecord struct {
	ID         string `bson:"id" json:"id"`
	RecordCode string `bson:"recordCode" json:"recordCode"` // ESR-YYMM-NNNNNN

	ServiceRequestID string `bson:"serviceRequestId" json:"serviceRequestId"`
	ExpertID         string `bson:"expertId" json:"expertId"`
	CustomerUserID   string `bson:"customerUserId" json:"customerUserId"`
	CustomerOrgID    string `bson:"customerOrgId,omitempty" json:"customerOrgId,omitempty"`

	// Snapshot of the request at assignment time.
	ServiceType string `bson:"serviceType" json:"serviceType"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description,omitempty"`
	Location    string `bson:"location" json:"location,omitempty"`

	AgreedPrice   float64  `bson:"agreedPrice" json:"agreedPrice"`
	FinalPrice    *float64 `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`
	PriceCurrency string   `bson:"priceCurrency" json:"priceCurrency"`

	ScheduledStart  *time.Time `bson:"scheduledStart,omitempty" json:"scheduledStart,omitempty"`
	ScheduledEnd    *time.Time `bson:"scheduledEnd,omitempty" json:"scheduledEnd,omitempty"`
	ActualStart     *time.Time `bson:"actualStart,omitempty" json:"actualStart,omitempty"`
	ActualEnd       *time.Time `bson:"actualEnd,omitempty" json:"actualEnd,omitempty"`
	ActualDuration  *int       `bson:"actualDuration,omitempty" json:"actualDuration,omitempty"` // minutes
	ServiceLocation string     `bson:"serviceLocation,omitempty" json:"serviceLocation,omitempty"`

	Status ServiceRecordStatus `bson:"status" json:"status"`

	CompletedAt         *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt         *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason  string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy         string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	ConfirmedByCustomer bool       `bson:"confirmedByCustomer" json:"confirmedByCustomer"`
	ConfirmedAt         *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	ReviewRequestedAt   *time.Time `bson:"reviewRequestedAt,omitempty" json:"reviewRequestedAt,omitempty"`
	IsReviewed          bool       `bson:"isReviewed" json:"isReviewed"`

	ExpertNotes     string `bson:"expertNotes,omitempty" json:"expertNotes,omitempty"`
	CustomerNotes   string `bson:"customerNotes,omitempty" json:"customerNotes,omitempty"`
	CompletionNotes string `bson:"completionNotes,omitempty" json:"completionNotes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// CreateServiceRecordInput carries the fields an expert assignment provides.
// Descriptive fields are copied from the service request, not from here.
type CreateServiceRecordInput struct {
	ServiceRequestID string     `json:"serviceRequestId" binding:"required"`
	ExpertID         string     `json:"expertId" binding:"required"`
	CustomerUserID   string     `json:"customerUserId" binding:"required"`
	CustomerOrgID    string     `json:"customerOrgId"`
	AgreedPrice      float64    `json:"agreedPrice" binding:"required"`
	PriceCurrency    string     `json:"priceCurrency"`
	ScheduledStart   *time.Time `json:"scheduledStart"`
	ScheduledEnd     *time.Time `json:"scheduledEnd"`
}

// ServiceRecordPatch is a partial update; nil fields are left untouched.
// Which fields apply for which actor is decided by the lifecycle service's
// field policy, not here.
type ServiceRecordPatch struct {
	Status             *ServiceRecordStatus `json:"status"`
	FinalPrice         *float64             `json:"finalPrice"`
	ActualDuration     *int                 `json:"actualDuration"`
	ActualStart        *time.Time           `json:"actualStart"`
	ActualEnd          *time.Time           `json:"actualEnd"`
	ServiceLocation    *string              `json:"serviceLocation"`
	CompletionNotes    *string              `json:"completionNotes"`
	ExpertNotes        *string              `json:"expertNotes"`
	CustomerNotes      *string              `json:"customerNotes"`
	CancellationReason *string              `json:"cancellationReason"`
}
