package notification

import "context"

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	SendExpertPushNotification(ctx context.Context, expertID, title, body string, data map[string]string) error
}
