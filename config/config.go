package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting the bot reads from the environment
type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	TableName          string `envconfig:"TABLE_NAME" required:"true"`
	AWSRegion          string `envconfig:"DDB_REGION"`
	ChannelSecret      string `envconfig:"CHANNEL_SECRET" required:"true"`
	ChannelAccessToken string `envconfig:"CHANNEL_ACCESS_TOKEN" required:"true"`
	AdminUserIDs       string `envconfig:"ADMIN_USER_IDS"`
	WelcomeText        string `envconfig:"WELCOME_TEXT"`
}

// Load reads the configuration from the environment and fails fast on
// missing required values
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// AdminIDs returns the configured admin roster, in configured order.
// The roster is loaded once at startup and passed around as a value;
// nothing reads the environment after this.
func (c *Config) AdminIDs() []string {
	var ids []string
	for _, raw := range strings.Split(c.AdminUserIDs, ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
