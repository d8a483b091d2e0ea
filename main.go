package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/owlhub/owlflow-jira/agent"
	"github.com/owlhub/owlflow-jira/analytics"
	"github.com/owlhub/owlflow-jira/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for webhook and metadata endpoints")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("redis-password", "", "redis password")
	cmd.Flags().String("namespace", "owlflow", "namespace used in storage")
	cmd.Flags().String("nats-url", "nats://localhost:4222", "nats server url")
	cmd.Flags().String("nats-stream", "OWLFLOW", "jetstream stream holding trigger events")
	cmd.Flags().String("subject-prefix", "owlflow.triggers", "subject prefix trigger events are published under")
	cmd.Flags().String("consumer-service", "jira", "consumer service this process handles trigger events for")
	cmd.Flags().String("event-bus-name", "owlhub", "event bus name stamped on published envelopes")
	cmd.Flags().Duration("handle-timeout", 0, "upper bound for handling one trigger event, 0 for none")
	cmd.Flags().String("webhook-user-agents", "Atlassian Webhook HTTP Client", "comma separated list of allowed webhook user agents")
	cmd.Flags().Duration("jira-timeout", 0, "timeout of jira api calls, 0 for none")
	cmd.Flags().Duration("node-cache-ttl", 0, "ttl of the in-process flow and node cache, 0 disables it")
	cmd.Flags().Int("worker-capacity", 512, "trigger consumer queue capacity")
	cmd.Flags().String("log-level", "info", "log level")
	cmd.Flags().String("analytics-file", "", "file action analytics are written to, empty disables them")
	cmd.Flags().String("otlp-endpoint", "", "otlp http endpoint (host:port), empty disables tracing")
	cmd.Flags().String("service-name", "owlflow-jira", "service name reported in traces")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err = viper.ReadInConfig(); err != nil {
			// it's ok if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return err
			}
		}
	}
	viper.SetEnvPrefix("owlflow")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Password = viper.GetString("redis-password")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.NatsConfig.URL = viper.GetString("nats-url")
	c.cfg.NatsConfig.Stream = viper.GetString("nats-stream")
	c.cfg.NatsConfig.SubjectPrefix = viper.GetString("subject-prefix")
	c.cfg.NatsConfig.ConsumerService = viper.GetString("consumer-service")
	c.cfg.NatsConfig.EventBusName = viper.GetString("event-bus-name")
	c.cfg.NatsConfig.HandleTimeout = viper.GetDuration("handle-timeout")
	c.cfg.WebhookConfig.UserAgents = strings.Split(viper.GetString("webhook-user-agents"), ",")
	c.cfg.JiraTimeout = viper.GetDuration("jira-timeout")
	c.cfg.NodeCacheTTL = viper.GetDuration("node-cache-ttl")
	c.cfg.WorkerCapacity = viper.GetInt("worker-capacity")
	c.cfg.LogLevel = viper.GetString("log-level")
	c.cfg.AnalyticsConfig.CollectorType = analytics.NOOP_DATA_COLLECTOR
	if file := viper.GetString("analytics-file"); file != "" {
		c.cfg.AnalyticsConfig.CollectorType = analytics.LOG_FILE_DATA_COLLECTOR
		c.cfg.AnalyticsConfig.FileName = file
	}
	c.cfg.TracingConfig.OTLPEndpoint = viper.GetString("otlp-endpoint")
	c.cfg.TracingConfig.ServiceName = viper.GetString("service-name")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		return err
	}
	if err = agent.Start(); err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "owlflow-jira",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
