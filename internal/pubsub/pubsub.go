package pubsub

import (
	"bytes"
	"context"

	"gallery/internal/gallery"

	"cloud.google.com/go/pubsub"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Message announces a change in the remote store. An empty Viewer means the
// change affects every viewer.
type Message struct {
	Viewer string
}

// Decode parses a message body of the form {"viewer": "<id>"}. An empty body
// is a message for every viewer.
func Decode(data []byte) (Message, error) {
	var m Message
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}

	d := jx.DecodeBytes(data)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "viewer":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			m.Viewer = v
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "decode message")
	}
	return m, nil
}

// Reload reloads every session for broadcast messages and drops the named
// viewer's session otherwise, so it reloads on next access.
func Reload(sessions *gallery.Sessions) func(ctx context.Context, m Message) error {
	return func(ctx context.Context, m Message) error {
		if m.Viewer != "" {
			sessions.Forget(m.Viewer)
			return nil
		}
		return sessions.Reload(ctx)
	}
}

func Start(
	ctx context.Context,
	projectID string,
	topicID string,
	subID string,
	fn func(ctx context.Context, m Message) error,
	opts ...option.ClientOption,
) error {
	pubsubClient, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return errors.Wrap(err, "create pubsub client")
	}
	defer pubsubClient.Close()

	topic, err := getOrCreateTopic(ctx, pubsubClient, topicID)
	if err != nil {
		return err
	}

	sub, err := getOrCreateSub(ctx, pubsubClient, subID, &pubsub.SubscriptionConfig{
		Topic:                     topic,
		EnableExactlyOnceDelivery: true,
	})
	if err != nil {
		return err
	}

	log.Info().Str("subscription", subID).Msg("Listening for wallpaper changes")
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		m, err := Decode(msg.Data)
		if err != nil {
			log.Error().Err(err).Str("messageID", msg.ID).Msg("Dropping malformed message")
			msg.Ack()
			return
		}

		if err := fn(ctx, m); err != nil {
			log.Error().Err(err).Str("messageID", msg.ID).Msg("Message processing failed")
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// getOrCreateTopic gets a topic or creates it if it doesn't exist.
func getOrCreateTopic(ctx context.Context, client *pubsub.Client, topicID string) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	ok, err := topic.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check topic exists")
	}
	if !ok {
		topic, err = client.CreateTopic(ctx, topicID)
		if err != nil {
			return nil, errors.Wrapf(err, "create topic %q", topicID)
		}
	}
	return topic, nil
}

// getOrCreateSub gets a subscription or creates it if it doesn't exist.
func getOrCreateSub(ctx context.Context, client *pubsub.Client, subID string, cfg *pubsub.SubscriptionConfig) (*pubsub.Subscription, error) {
	sub := client.Subscription(subID)
	ok, err := sub.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check subscription exists")
	}
	if !ok {
		sub, err = client.CreateSubscription(ctx, subID, *cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "create subscription %q", subID)
		}
	}
	return sub, nil
}
