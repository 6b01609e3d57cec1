// Package notify delivers plain-text messages to a chat channel.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier delivers message to channel.
type Notifier interface {
	Notify(ctx context.Context, channel, message string) error
}

// Slack posts messages with chat.postMessage.
type Slack struct {
	client *slack.Client
}

// NewSlack creates a Slack notifier authenticated with token. An empty
// apiURL uses the public Slack API; it must end with a slash otherwise.
func NewSlack(token, apiURL string) *Slack {
	var opts []slack.Option
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	return &Slack{client: slack.New(token, opts...)}
}

func (s *Slack) Notify(ctx context.Context, channel, message string) error {
	_, _, err := s.client.PostMessageContext(ctx, channel, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("posting to slack channel %s: %w", channel, err)
	}
	return nil
}
