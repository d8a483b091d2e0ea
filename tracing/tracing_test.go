package tracing

import (
	"context"
	"testing"

	"github.com/owlhub/owlflow-jira/config"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{ServiceName: "owlflow-jira"})
	require.NoError(t, err)
	require.NoError(t, Shutdown(shutdown))
}
