package models

import "time"

// User is a customer-side account. Registration and profile management live
// in a separate subsystem; this core only needs identity, org membership and
// the push token.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email,omitempty"`
	OrgID     string    `bson:"orgId,omitempty" json:"orgId,omitempty"`
	FCMToken  string    `bson:"fcmToken" json:"-"`
	TokenHash string    `bson:"tokenHash" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}
