// Package cmd defines core data structures for review-triage configuration.
package cmd

import (
	"fmt"
	"time"
)

// DefaultReplyDelayMS is the pause between successive reply posts when the
// config file does not specify one. GitHub's secondary rate limits punish
// rapid sequential writes.
const DefaultReplyDelayMS = 100

// Config represents the structure of review-triage.yaml
type Config struct {
	Org          string `yaml:"org"`
	Repo         string `yaml:"repo"`
	ReplyDelayMS int    `yaml:"reply_delay_ms,omitempty"`
}

// Slug returns the "org/repo" form used in log lines and output documents
func (c *Config) Slug() string {
	return fmt.Sprintf("%s/%s", c.Org, c.Repo)
}

// ReplyDelay returns the configured inter-reply pause, falling back to the default
func (c *Config) ReplyDelay() time.Duration {
	if c.ReplyDelayMS <= 0 {
		return DefaultReplyDelayMS * time.Millisecond
	}
	return time.Duration(c.ReplyDelayMS) * time.Millisecond
}
