// Package events publishes notification events to Google Cloud Pub/Sub so
// other services can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Publisher writes JSON events to one topic.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPublisher connects to projectID and checks that topicName exists.
func NewPublisher(ctx context.Context, projectID, topicName, credentialsFile string) (*Publisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("check topic %s: %w", topicName, err)
	}
	if !exists {
		client.Close()
		return nil, fmt.Errorf("pubsub topic %s does not exist", topicName)
	}

	log.Printf("[PubSub] Publishing to topic %s", topicName)
	return &Publisher{client: client, topic: topic}, nil
}

// Publish sends v as JSON and waits for the server to acknowledge it.
func (p *Publisher) Publish(ctx context.Context, eventType string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	res := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"type": eventType},
	})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// Close flushes pending messages and releases the client.
func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
