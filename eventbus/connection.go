package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/owlhub/owlflow-jira/logger"
	"go.uber.org/zap"
)

type ConnectionConfig struct {
	URL            string
	Name           string
	MaxReconnects  int
	ReconnectWait  time.Duration
	Timeout        time.Duration
	ConnectTimeout time.Duration
}

func DefaultConnectionConfig(url string) ConnectionConfig {
	return ConnectionConfig{
		URL:            url,
		Name:           "owlflow-jira",
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
		Timeout:        5 * time.Second,
		ConnectTimeout: time.Minute,
	}
}

// Connect dials NATS, retrying with exponential backoff until the server
// answers or ConnectTimeout elapses.
func Connect(ctx context.Context, conf ConnectionConfig) (*nats.Conn, error) {
	if conf.URL == "" {
		return nil, fmt.Errorf("nats url cannot be empty")
	}
	opts := []nats.Option{
		nats.Name(conf.Name),
		nats.MaxReconnects(conf.MaxReconnects),
		nats.ReconnectWait(conf.ReconnectWait),
		nats.Timeout(conf.Timeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("nats connection closed")
		}),
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = conf.ConnectTimeout

	var conn *nats.Conn
	operation := func() error {
		c, err := nats.Connect(conf.URL, opts...)
		if err != nil {
			logger.Warn("error connecting to nats, retrying", zap.String("url", conf.URL), zap.Error(err))
			return err
		}
		conn = c
		return nil
	}
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

// Close drains the connection so in-flight messages complete.
func Close(conn *nats.Conn) error {
	if conn == nil {
		return nil
	}
	if err := conn.Drain(); err != nil {
		conn.Close()
		return fmt.Errorf("error draining connection: %w", err)
	}
	return nil
}
