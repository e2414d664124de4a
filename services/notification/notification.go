package notification

import (
	"context"
	"fmt"

	expertRepo "equipass/database/repository/expert"
	userRepo "equipass/database/repository/user"
	"equipass/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users   userRepo.UserRepository
	Experts expertRepo.ExpertRepository
}

func NewDefaultNotificationService(users userRepo.UserRepository, experts expertRepo.ExpertRepository) (*DefaultNotificationService, error) {
	if users == nil || experts == nil {
		return nil, fmt.Errorf("notification service initialization error: user or expert repository is nil")
	}
	return &DefaultNotificationService{Users: users, Experts: experts}, nil
}

// SendUserPushNotification looks up a user's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.Users.GetByID(userID)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not find user %s: %w", userID, err)
	}
	return s.send(ctx, u.FCMToken, title, body, data)
}

// SendExpertPushNotification looks up an expert's FCM token and sends a push.
func (s *DefaultNotificationService) SendExpertPushNotification(ctx context.Context, expertID, title, body string, data map[string]string) error {
	e, err := s.Experts.GetByID(expertID)
	if err != nil {
		return fmt.Errorf("SendExpertPushNotification: could not find expert %s: %w", expertID, err)
	}
	return s.send(ctx, e.FCMToken, title, body, data)
}

func (s *DefaultNotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return fmt.Errorf("recipient has no FCM token")
	}
	if utils.FCMClient == nil {
		utils.GetLogger().Debug("FCM client not configured, skipping push", zap.String("title", title))
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}
