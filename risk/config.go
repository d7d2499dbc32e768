package risk

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	RiskAgentURL     string `envconfig:"RISK_AGENT_URL" default:"http://localhost:8001"`
	RiskAgentTimeout int    `envconfig:"RISK_AGENT_TIMEOUT" default:"10"` // in seconds
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
