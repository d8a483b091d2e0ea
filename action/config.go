package action

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/owlhub/owlflow-jira/jira"
	"github.com/owlhub/owlflow-jira/model"
)

// LookupConfig is the meta entry of a lookup action. IssueKey names the
// DataContext key that holds the issue key.
type LookupConfig struct {
	IssueKey string `mapstructure:"issueKey"`
}

// MutationConfig is the meta entry of an assignee or transition update.
type MutationConfig struct {
	IssueKey string         `mapstructure:"issueKey"`
	Body     map[string]any `mapstructure:"body"`
}

type siteConfig struct {
	SiteURL  string `mapstructure:"siteUrl"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func decodeMeta(input any, out any) error {
	if input == nil {
		return nil
	}
	if err := mapstructure.Decode(input, out); err != nil {
		return fmt.Errorf("invalid action config: %w", err)
	}
	return nil
}

// Credentials reads the Jira site and login from the node meta.
func Credentials(node *model.FlowNode) (jira.Credentials, error) {
	var site siteConfig
	if err := decodeMeta(node.Meta, &site); err != nil {
		return jira.Credentials{}, err
	}
	return jira.Credentials{
		SiteURL:  site.SiteURL,
		Username: site.Username,
		Password: site.Password,
	}, nil
}
