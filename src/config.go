package src

import (
	"fmt"
	"os"

	"chat_agent/src/model"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogConfig    model.LogConfig    `envconfig:""`
	ModelConfig  model.ModelConfig  `envconfig:""`
	MemoryConfig model.MemoryConfig `envconfig:""`
	SearchConfig model.SearchConfig `envconfig:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &config, nil
}

// LoadAgentConfig loads runtime tunables from config.yaml.
func LoadAgentConfig(filepath string) (*model.AgentConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config model.AgentConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}

	return &config, nil
}
