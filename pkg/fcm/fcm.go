package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client publishes push notifications to one FCM topic. Browsers and phones
// subscribe to the topic themselves, so there is no device token store.
type Client struct {
	messaging *messaging.Client
	topic     string
}

// NewClient initializes Firebase with the given service-account file (or
// application default credentials when empty).
func NewClient(ctx context.Context, credentialsFile, topic string) (*Client, error) {
	if topic == "" {
		return nil, fmt.Errorf("fcm topic is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	mc, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Printf("[FCM] Client ready for topic %q", topic)
	return &Client{messaging: mc, topic: topic}, nil
}

// Push is one notification as shown on the device.
type Push struct {
	Title string
	Body  string
	Data  map[string]string
}

// Send delivers p to every subscriber of the client's topic.
func (c *Client) Send(ctx context.Context, p Push) error {
	msg := &messaging.Message{
		Topic: c.topic,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: p.Title,
				Body:  p.Body,
				Icon:  "/icon-192.svg",
			},
		},
	}

	id, err := c.messaging.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	log.Printf("[FCM] Sent %s", id)
	return nil
}
