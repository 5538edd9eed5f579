package notify

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// KafkaOptions configures a KafkaNotifier.
type KafkaOptions struct {
	Brokers []string
	Topic   string
	ID      string
	Title   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier writes the notification keyed by its id. With log
// compaction enabled on the topic, only the latest content is retained.
type KafkaNotifier struct {
	w     messageWriter
	id    string
	title string
}

func NewKafkaNotifier(opts KafkaOptions) (*KafkaNotifier, error) {
	if len(opts.Brokers) == 0 {
		return nil, pkgerrors.New("no kafka brokers configured")
	}
	if opts.Topic == "" {
		return nil, pkgerrors.New("kafka topic is empty")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(opts.Brokers...),
		Topic:                  opts.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &KafkaNotifier{w: w, id: opts.ID, title: opts.Title}, nil
}

func (n *KafkaNotifier) Show(ctx context.Context, message string) error {
	b, err := newPayload(n.id, n.title, message)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to marshal notification")
	}

	err = n.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.id),
		Value: b,
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to write notification to kafka")
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.w.Close()
}
