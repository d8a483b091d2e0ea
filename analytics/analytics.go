package analytics

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

// ActionDataCollector records the outcome of every node action.
type ActionDataCollector interface {
	RecordActionSuccess(flowId string, nodeId string, actionName string)
	RecordActionFailure(flowId string, nodeId string, actionName string, reason string)
}

func NewDataCollector(config DataCollectorConfig) (ActionDataCollector, error) {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		return NewLogFileDataCollector(config.FileName)
	}
	return NoopDataCollector{}, nil
}

type NoopDataCollector struct{}

func (NoopDataCollector) RecordActionSuccess(flowId string, nodeId string, actionName string) {}
func (NoopDataCollector) RecordActionFailure(flowId string, nodeId string, actionName string, reason string) {
}
