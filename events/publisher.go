package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"
	"scavngr.io/todolist/dtos"
)

type Publisher interface {
	Publish(ctx context.Context, event dtos.ListEvent) error
	Stop()
}

// Nop drops every event. It is used when no topic is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, event dtos.ListEvent) error { return nil }
func (Nop) Stop()                                                    {}

type pubSubPublisher struct {
	topic *pubsub.Topic
}

// NewPubSubPublisher returns a Publisher for topicName, creating the topic if
// it does not exist yet.
func NewPubSubPublisher(ctx context.Context, client *pubsub.Client, topicName string) (Publisher, error) {
	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		log.Err(err).Str("topic", topicName).Msg("failed to check if topic exists")
		return nil, fmt.Errorf("failed to check if topic exists - %w", err)
	}

	if !exists {
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			log.Err(err).Str("topic", topicName).Msg("unable to create pub sub topic")
			return nil, fmt.Errorf("failed to create pub sub topic - %w", err)
		}
	}

	return &pubSubPublisher{topic: topic}, nil
}

func (p *pubSubPublisher) Publish(ctx context.Context, event dtos.ListEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("unable to marshal list event - %w", err)
	}

	_, err = p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"type": string(event.Type)},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("unable to publish msg - %w", err)
	}

	log.Debug().Str("type", string(event.Type)).Str("list", event.ListName).Msg("published list event")

	return nil
}

func (p *pubSubPublisher) Stop() {
	p.topic.Stop()
}
