package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ModeStdin  = "stdin"
	ModeBench  = "bench"
	ModeStream = "stream"

	defaultLength             = 300000
	defaultRepeat             = 100000
	defaultAlphabet           = "abcdefghijklmnopqrstuvwxyz"
	defaultStatsWindowSeconds = 600
	defaultSnapshotEvery      = 1000
)

type Config struct {
	Mode   string        `yaml:"mode"`
	Bench  *BenchConfig  `yaml:"bench"`
	Stream *StreamConfig `yaml:"stream"`
}

type BenchConfig struct {
	Length             int       `yaml:"length"`
	Repeat             int       `yaml:"repeat"`
	Seed               int64     `yaml:"seed"`
	Alphabet           string    `yaml:"alphabet"`
	StatsWindowSeconds int       `yaml:"statsWindowSeconds"`
	Verify             bool      `yaml:"verify"`
	SkipNaive          bool      `yaml:"skipNaive"`
	Percentiles        []float64 `yaml:"percentiles"`
}

type StreamConfig struct {
	KafkaConfig   *KafkaConfig `yaml:"kafkaConfig"`
	EditTopic     string       `yaml:"editTopic"`
	ResultTopic   string       `yaml:"resultTopic"`
	Sequence      string       `yaml:"sequence"`
	SnapshotEvery int          `yaml:"snapshotEvery"`
}

type KafkaConfig struct {
	SeedBrokers []string `yaml:"seedBrokers"`
}

// GetConfigFromBytes decodes YAML (or JSON) configuration.
func GetConfigFromBytes(data *[]byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(*data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func GetConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return GetConfigFromBytes(&data)
}

// Validate checks that the selected mode has the settings it needs.
func (c *Config) Validate() error {
	switch c.Mode {
	case "", ModeStdin, ModeBench, ModeStream:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Mode == ModeStream {
		s := c.Stream
		if s == nil || s.KafkaConfig == nil || len(s.KafkaConfig.SeedBrokers) == 0 {
			return fmt.Errorf("stream mode requires stream.kafkaConfig.seedBrokers")
		}
		if s.EditTopic == "" {
			return fmt.Errorf("stream mode requires stream.editTopic")
		}
	}
	if b := c.Bench; b != nil {
		for _, p := range b.Percentiles {
			if p < 0 || p > 100 {
				return fmt.Errorf("bench percentile %v outside [0, 100]", p)
			}
		}
	}
	return nil
}

func (c *Config) GetMode() string {
	if c == nil || c.Mode == "" {
		return ModeStdin
	}
	return c.Mode
}

func (c *Config) GetBench() *BenchConfig {
	if c == nil || c.Bench == nil {
		return &BenchConfig{}
	}
	return c.Bench
}

func (c *Config) GetStream() *StreamConfig {
	if c == nil || c.Stream == nil {
		return &StreamConfig{}
	}
	return c.Stream
}

func (b *BenchConfig) GetLength() int {
	if b == nil || b.Length <= 0 {
		return defaultLength
	}
	return b.Length
}

func (b *BenchConfig) GetRepeat() int {
	if b == nil || b.Repeat <= 0 {
		return defaultRepeat
	}
	return b.Repeat
}

func (b *BenchConfig) GetAlphabet() string {
	if b == nil || b.Alphabet == "" {
		return defaultAlphabet
	}
	return b.Alphabet
}

func (b *BenchConfig) GetStatsWindowSeconds() int {
	if b == nil || b.StatsWindowSeconds <= 0 {
		return defaultStatsWindowSeconds
	}
	return b.StatsWindowSeconds
}

func (b *BenchConfig) GetPercentiles() []float64 {
	if b == nil || len(b.Percentiles) == 0 {
		return []float64{50, 99}
	}
	return b.Percentiles
}

func (s *StreamConfig) GetResultTopic() string {
	if s == nil || s.ResultTopic == "" {
		return s.GetEditTopic() + "-results"
	}
	return s.ResultTopic
}

func (s *StreamConfig) GetEditTopic() string {
	if s == nil {
		return ""
	}
	return s.EditTopic
}

func (s *StreamConfig) GetSnapshotEvery() int {
	if s == nil || s.SnapshotEvery <= 0 {
		return defaultSnapshotEvery
	}
	return s.SnapshotEvery
}
