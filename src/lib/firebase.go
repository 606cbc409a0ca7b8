package lib

import (
	"context"
	"errors"
	"log"
	"os"
	"path"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var innerApp *firebase.App
var innerMessaging *messaging.Client

var ErrFirebaseNotConfigured = errors.New("firebase credentials are not configured")

func credentialsFile() string {
	secretsPath := os.Getenv("SECRETS_DIR")
	if secretsPath == "" {
		return ""
	}
	return path.Join(secretsPath, "admin-sdk-credentials.json")
}

func GetFirebaseMessaging() (*messaging.Client, error) {
	if innerMessaging != nil {
		return innerMessaging, nil
	}
	creds := credentialsFile()
	if creds == "" {
		return nil, ErrFirebaseNotConfigured
	}
	if _, err := os.Stat(creds); err != nil {
		return nil, ErrFirebaseNotConfigured
	}
	if innerApp == nil {
		app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(creds))
		if err != nil {
			log.Printf("error initializing app: %v\n", err.Error())
			return nil, err
		}
		innerApp = app
	}
	client, err := innerApp.Messaging(context.Background())
	if err != nil {
		log.Printf("error initializing Firebase Messaging: %v\n", err.Error())
		return nil, err
	}
	innerMessaging = client
	return client, nil
}

// SendTopicMessage pushes a notification to every device subscribed to topic.
func SendTopicMessage(ctx context.Context, topic string, title string, body string, data map[string]string) error {
	client, err := GetFirebaseMessaging()
	if err != nil {
		return err
	}
	id, err := client.Send(ctx, &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		return err
	}
	log.Printf("[FCM] Sent message %s to topic %s\n", id, topic)
	return nil
}

func SubscribeToTopic(ctx context.Context, topic string, tokens ...string) error {
	client, err := GetFirebaseMessaging()
	if err != nil {
		return err
	}
	resp, err := client.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return err
	}
	if resp.FailureCount > 0 {
		log.Printf("[FCM] %d token(s) failed to subscribe to %s\n", resp.FailureCount, topic)
	}
	return nil
}
