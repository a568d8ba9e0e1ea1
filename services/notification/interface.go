package notification

import "context"

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}
