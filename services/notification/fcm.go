package notification

import (
	"context"
	"fmt"

	"agendei/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotificationService sends pushes through Firebase Cloud Messaging.
type FCMNotificationService struct{}

func NewFCMNotificationService() *FCMNotificationService {
	return &FCMNotificationService{}
}

// SendPush sends a push to a single device token.
func (s *FCMNotificationService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("SendPush: FCM client not initialized")
	}
	if deviceToken == "" {
		return fmt.Errorf("SendPush: empty device token")
	}

	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendPush: failed to send FCM message: %w", err)
	}

	utils.GetLogger().Debug("push sent", zap.String("response", response))
	return nil
}
