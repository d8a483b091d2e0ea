package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/owlhub/owlflow-jira/flow"
	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/util"
	"go.uber.org/zap"
)

type TriggerHandler interface {
	Handle(ctx context.Context, event *model.TriggerEvent) error
}

type ConsumerConfig struct {
	SubjectPrefix string
	Service       string
	Durable       string
	Capacity      int
	// HandleTimeout bounds one invocation; zero means no bound.
	HandleTimeout time.Duration
}

// Consumer feeds trigger events from the bus to a handler, one at a time.
// A message is acknowledged as soon as it is received, so neither a slow
// handler nor a long queue can make JetStream redeliver it; the outcome is
// only logged.
type Consumer struct {
	js      JetStream
	conf    ConsumerConfig
	handler TriggerHandler
	decoder util.EncoderDecoder[model.Envelope]
	worker  *util.Worker[*nats.Msg]
	sub     Subscription
	ack     func(msg *nats.Msg) error
}

func NewConsumer(js JetStream, conf ConsumerConfig, handler TriggerHandler, wg *sync.WaitGroup) *Consumer {
	if conf.Durable == "" {
		conf.Durable = conf.Service
	}
	c := &Consumer{
		js:      js,
		conf:    conf,
		handler: handler,
		decoder: util.NewJsonEncoderDecoder[model.Envelope](),
		ack: func(msg *nats.Msg) error {
			return msg.Ack()
		},
	}
	c.worker = util.NewWorker("trigger-consumer", wg, c.handle, conf.Capacity)
	return c
}

func (c *Consumer) Start() error {
	c.worker.Start()
	subject := Subject(c.conf.SubjectPrefix, c.conf.Service)
	sub, err := c.js.QueueSubscribe(subject, c.conf.Durable, c.receive,
		nats.Durable(c.conf.Durable), nats.ManualAck(), nats.AckExplicit())
	if err != nil {
		c.worker.Stop()
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	c.sub = sub
	logger.Info("trigger consumer started", zap.String("subject", subject), zap.String("durable", c.conf.Durable))
	return nil
}

func (c *Consumer) Stop() error {
	var err error
	if c.sub != nil {
		err = c.sub.Drain()
	}
	c.worker.Stop()
	return err
}

func (c *Consumer) receive(msg *nats.Msg) {
	if err := c.ack(msg); err != nil {
		logger.Error("error acking message", zap.String("subject", msg.Subject), zap.Error(err))
	}
	c.worker.Sender() <- msg
}

func (c *Consumer) handle(msg *nats.Msg) error {
	flow.Acknowledge(flow.Outcome{Source: msg.Subject, Err: c.dispatch(msg)})
	return nil
}

func (c *Consumer) dispatch(msg *nats.Msg) error {
	envelope, err := c.decoder.Decode(msg.Data)
	if err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	ctx := context.Background()
	if c.conf.HandleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.conf.HandleTimeout)
		defer cancel()
	}
	logger.Debug("trigger event received", zap.String("envelopeId", envelope.ID), zap.String("flowId", envelope.Detail.FlowID), zap.String("nodeId", envelope.Detail.NodeDetail.ID))
	return c.handler.Handle(ctx, &envelope.Detail)
}
