package eventbus

import (
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/owlhub/owlflow-jira/logger"
	"go.uber.org/zap"
)

// JetStream is the part of nats.JetStreamContext the bus uses.
type JetStream interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
	QueueSubscribe(subj, queue string, cb nats.MsgHandler, opts ...nats.SubOpt) (Subscription, error)
	StreamInfo(stream string) (*nats.StreamInfo, error)
	AddStream(cfg *nats.StreamConfig) (*nats.StreamInfo, error)
}

type Subscription interface {
	Unsubscribe() error
	Drain() error
}

func WrapJetStream(js nats.JetStreamContext) JetStream {
	return &jetStreamAdapter{js: js}
}

type jetStreamAdapter struct {
	js nats.JetStreamContext
}

func (a *jetStreamAdapter) Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error) {
	return a.js.Publish(subj, data, opts...)
}

func (a *jetStreamAdapter) QueueSubscribe(subj, queue string, cb nats.MsgHandler, opts ...nats.SubOpt) (Subscription, error) {
	return a.js.QueueSubscribe(subj, queue, cb, opts...)
}

func (a *jetStreamAdapter) StreamInfo(stream string) (*nats.StreamInfo, error) {
	return a.js.StreamInfo(stream)
}

func (a *jetStreamAdapter) AddStream(cfg *nats.StreamConfig) (*nats.StreamInfo, error) {
	return a.js.AddStream(cfg)
}

// EnsureStream creates the stream holding trigger events when it does not
// exist yet.
func EnsureStream(js JetStream, stream string, subjectPrefix string) error {
	_, err := js.StreamInfo(stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream %s: %w", stream, err)
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:      stream,
		Subjects:  []string{subjectPrefix, subjectPrefix + ".>"},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", stream, err)
	}
	logger.Info("created stream", zap.String("stream", stream), zap.String("subjectPrefix", subjectPrefix))
	return nil
}

// Subject is where events for a consumer service are published.
func Subject(prefix string, service string) string {
	if service == "" {
		return prefix
	}
	return prefix + "." + service
}
