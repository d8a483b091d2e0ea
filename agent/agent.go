package agent

import (
	"context"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/owlhub/owlflow-jira/action"
	"github.com/owlhub/owlflow-jira/analytics"
	"github.com/owlhub/owlflow-jira/config"
	"github.com/owlhub/owlflow-jira/eventbus"
	"github.com/owlhub/owlflow-jira/flow"
	"github.com/owlhub/owlflow-jira/jira"
	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/metadata"
	"github.com/owlhub/owlflow-jira/persistence"
	"github.com/owlhub/owlflow-jira/persistence/redis"
	"github.com/owlhub/owlflow-jira/rest"
	"github.com/owlhub/owlflow-jira/tracing"
	"go.uber.org/zap"
)

type Agent struct {
	Config          config.Config
	storage         persistence.NodeStorage
	closeStorage    func() error
	collector       analytics.ActionDataCollector
	conn            *nats.Conn
	js              eventbus.JetStream
	propagator      *flow.Propagator
	consumer        *eventbus.Consumer
	httpServer      *rest.Server
	shutdownTracing func(context.Context) error
	shutdown        bool
	shutdownLock    sync.Mutex
	wg              sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config: config,
	}
	setup := []func() error{
		a.setupLogger,
		a.setupTracing,
		a.setupStorage,
		a.setupAnalytics,
		a.setupEventBus,
		a.setupConsumer,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupLogger() error {
	if a.Config.LogLevel == "" {
		return nil
	}
	return logger.SetLevel(a.Config.LogLevel)
}

func (a *Agent) setupTracing() error {
	var err error
	a.shutdownTracing, err = tracing.Setup(context.Background(), a.Config.TracingConfig)
	return err
}

func (a *Agent) setupStorage() error {
	dao := redis.NewRedisNodeDao(redis.Config{
		Addrs:     a.Config.RedisConfig.Addrs,
		Namespace: a.Config.RedisConfig.Namespace,
		Password:  a.Config.RedisConfig.Password,
	})
	a.closeStorage = dao.Close
	a.storage = dao
	if a.Config.NodeCacheTTL > 0 {
		a.storage = persistence.NewCachedNodeStorage(dao, a.Config.NodeCacheTTL)
	}
	return nil
}

func (a *Agent) setupAnalytics() error {
	var err error
	a.collector, err = analytics.NewDataCollector(a.Config.AnalyticsConfig)
	return err
}

func (a *Agent) setupEventBus() error {
	var err error
	conf := eventbus.DefaultConnectionConfig(a.Config.NatsConfig.URL)
	a.conn, err = eventbus.Connect(context.Background(), conf)
	if err != nil {
		return err
	}
	js, err := a.conn.JetStream()
	if err != nil {
		return err
	}
	a.js = eventbus.WrapJetStream(js)
	if err := eventbus.EnsureStream(a.js, a.Config.NatsConfig.Stream, a.Config.NatsConfig.SubjectPrefix); err != nil {
		return err
	}
	publisher := eventbus.NewPublisher(a.js, a.Config.NatsConfig.SubjectPrefix)
	a.propagator = flow.NewPropagator(a.storage, publisher, a.Config.NatsConfig.EventBusName)
	return nil
}

func (a *Agent) setupConsumer() error {
	executor := action.NewExecutor(jira.NewHttpClient(a.Config.JiraTimeout), a.collector)
	handler := flow.NewInboundHandler(executor, a.propagator)
	a.consumer = eventbus.NewConsumer(a.js, eventbus.ConsumerConfig{
		SubjectPrefix: a.Config.NatsConfig.SubjectPrefix,
		Service:       a.Config.NatsConfig.ConsumerService,
		Capacity:      a.Config.WorkerCapacity,
		HandleTimeout: a.Config.NatsConfig.HandleTimeout,
	}, handler, &a.wg)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	webhookHandler := flow.NewWebhookHandler(a.storage, a.propagator, a.Config.WebhookConfig.UserAgents)
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, metadata.NewMetadataService(a.storage), webhookHandler)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	if err := a.consumer.Start(); err != nil {
		return err
	}
	go func() {
		if err := a.httpServer.Start(); err != nil {
			logger.Error("http server failed", zap.Error(err))
			_ = a.Shutdown()
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	shutdown := []func() error{
		a.httpServer.Stop,
		a.consumer.Stop,
		func() error {
			return eventbus.Close(a.conn)
		},
		a.closeStorage,
		func() error {
			if syncer, ok := a.collector.(*analytics.LogFileDataCollector); ok {
				return syncer.Sync()
			}
			return nil
		},
		func() error {
			return tracing.Shutdown(a.shutdownTracing)
		},
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	logger.Sync()
	return nil
}
