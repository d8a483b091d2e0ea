package eventbus

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/owlhub/owlflow-jira/flow"
	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/util"
	"go.uber.org/zap"
)

var _ flow.Publisher = new(Publisher)

type Publisher struct {
	js            JetStream
	subjectPrefix string
	encoder       util.EncoderDecoder[model.Envelope]
}

func NewPublisher(js JetStream, subjectPrefix string) *Publisher {
	return &Publisher{
		js:            js,
		subjectPrefix: subjectPrefix,
		encoder:       util.NewJsonEncoderDecoder[model.Envelope](),
	}
}

// Publish routes the envelope to the service its child node declares. The
// envelope id doubles as the message id so the stream drops duplicates.
func (p *Publisher) Publish(ctx context.Context, envelope *model.Envelope) error {
	data, err := p.encoder.Encode(*envelope)
	if err != nil {
		return fmt.Errorf("encode envelope %s: %w", envelope.ID, err)
	}
	subject := Subject(p.subjectPrefix, envelope.Detail.ConsumerAPI.Service)
	ack, err := p.js.Publish(subject, data, nats.MsgId(envelope.ID), nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	logger.Debug("envelope published", zap.String("subject", subject), zap.String("envelopeId", envelope.ID), zap.String("stream", ack.Stream), zap.Uint64("sequence", ack.Sequence))
	return nil
}
