package models

import "time"

// ServiceRequestStatus tracks the originating request's own lifecycle.
type ServiceRequestStatus string

const (
	RequestStatusOpen       ServiceRequestStatus = "OPEN"
	RequestStatusInProgress ServiceRequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  ServiceRequestStatus = "COMPLETED"
	RequestStatusCancelled  ServiceRequestStatus = "CANCELLED"
)

// ServiceRequest is the customer's ask that a service record fulfils.
// The record copies the descriptive fields at assignment time and does not
// keep them in sync afterwards.
type ServiceRequest struct {
	ID               string               `bson:"id" json:"id"`
	CustomerUserID   string               `bson:"customerUserId" json:"customerUserId"`
	CustomerOrgID    string               `bson:"customerOrgId,omitempty" json:"customerOrgId,omitempty"`
	ServiceType      string               `bson:"serviceType" json:"serviceType"`
	Title            string               `bson:"title" json:"title"`
	Description      string               `bson:"description" json:"description,omitempty"`
	Location         string               `bson:"location" json:"location,omitempty"`
	Status           ServiceRequestStatus `bson:"status" json:"status"`
	AssignedExpertID string               `bson:"assignedExpertId,omitempty" json:"assignedExpertId,omitempty"`
	CompletedAt      *time.Time           `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt,omitzero"`
}
