package action

import (
	"context"
	"errors"

	"github.com/owlhub/owlflow-jira/analytics"
	"github.com/owlhub/owlflow-jira/jira"
	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"go.uber.org/zap"
)

// Executor runs a node's actions against Jira, strictly in the order the node
// lists them.
type Executor struct {
	client    jira.Client
	collector analytics.ActionDataCollector
}

func NewExecutor(client jira.Client, collector analytics.ActionDataCollector) *Executor {
	if collector == nil {
		collector = analytics.NoopDataCollector{}
	}
	return &Executor{
		client:    client,
		collector: collector,
	}
}

// Execute returns the combined result of the node's actions. The first
// action that fails without recovery stops the run; its error is returned as
// a FatalActionError and no result is produced.
func (e *Executor) Execute(ctx context.Context, node *model.FlowNode, data model.DataContext) (model.ActionResult, error) {
	result := make(model.ActionResult)
	if len(node.Actions) == 0 {
		return result, nil
	}

	creds, err := Credentials(node)
	if err != nil {
		return nil, FatalActionError{Action: "meta", Err: err}
	}
	env := &Env{
		Client: e.client,
		Creds:  creds,
		Node:   node,
		Data:   data,
	}

	for _, name := range node.Actions {
		act, ok, err := Build(name, node)
		if err != nil {
			e.collector.RecordActionFailure(node.FlowID, node.ID, name, err.Error())
			return nil, FatalActionError{Action: name, Err: err}
		}
		if !ok {
			logger.Debug("skipping unknown action", zap.String("nodeId", node.ID), zap.String("action", name))
			continue
		}

		logger.Info("running action", zap.String("flowId", node.FlowID), zap.String("nodeId", node.ID), zap.String("action", name))
		err = act.Execute(ctx, env, result)
		if err == nil {
			e.collector.RecordActionSuccess(node.FlowID, node.ID, name)
			continue
		}

		e.collector.RecordActionFailure(node.FlowID, node.ID, name, err.Error())
		var recoverable RecoverableActionError
		if errors.As(err, &recoverable) {
			logger.Warn("action failed, recorded in result", zap.String("nodeId", node.ID), zap.String("action", name), zap.Error(err))
			continue
		}
		var fatal FatalActionError
		if !errors.As(err, &fatal) {
			fatal = FatalActionError{Action: name, Err: err}
		}
		return nil, fatal
	}
	return result, nil
}
