package flow

import (
	"github.com/owlhub/owlflow-jira/logger"
	"go.uber.org/zap"
)

// Outcome is what an orchestrator returned for one invocation.
type Outcome struct {
	Source string
	Err    error
}

// Ack is what the transport is told. Acknowledged is always true: a node
// that already ran part of its actions must not be redelivered.
type Ack struct {
	Acknowledged bool
	Err          error
}

func Acknowledge(outcome Outcome) Ack {
	if outcome.Err != nil {
		logger.Error("invocation failed, acknowledging anyway", zap.String("source", outcome.Source), zap.Error(outcome.Err))
	}
	return Ack{Acknowledged: true, Err: outcome.Err}
}
