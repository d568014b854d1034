package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// fcmBatchSize is the most tokens one multicast accepts
const fcmBatchSize = 500

var fcmClient *messaging.Client

// InitFCM initializes Firebase Cloud Messaging
func InitFCM(ctx context.Context, credentialsFile string) error {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize FCM client: %v", err)
	}

	fcmClient = client
	return nil
}

// FCMReady reports whether pushes can be sent
func FCMReady() bool {
	return fcmClient != nil
}

// SendBulkPushNotifications sends one notification to every token and
// returns the tokens FCM reported as unregistered, so callers can stop
// sending to them
func SendBulkPushNotifications(ctx context.Context, deviceTokens []string, title, body string, data map[string]string) ([]string, error) {
	if fcmClient == nil {
		return nil, fmt.Errorf("FCM client not initialized")
	}

	var stale []string
	for start := 0; start < len(deviceTokens); start += fcmBatchSize {
		end := start + fcmBatchSize
		if end > len(deviceTokens) {
			end = len(deviceTokens)
		}
		batch := deviceTokens[start:end]

		response, err := fcmClient.SendMulticast(ctx, &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		})
		if err != nil {
			return stale, fmt.Errorf("failed to send bulk notifications: %v", err)
		}

		for i, resp := range response.Responses {
			if !resp.Success && messaging.IsRegistrationTokenNotRegistered(resp.Error) {
				stale = append(stale, batch[i])
			}
		}
	}
	return stale, nil
}
