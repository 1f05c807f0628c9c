package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func parseYAML(yamlFilePath string) (*StructuredConfig, error) {
	yamlFile, err := os.Open(yamlFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a yaml file: %w", err)
	}
	defer yamlFile.Close()

	var fileCfg StructuredFileConfig
	if err := yaml.NewDecoder(yamlFile).Decode(&fileCfg); err != nil {
		return nil, fmt.Errorf("error decoding yaml configs: %w", err)
	}

	return fileCfg.toStructured(), nil
}

// UnmarshalYAML accepts "1h30m" style strings and plain nanosecond integers.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	if tmp, err := time.ParseDuration(s); err == nil {
		*d = Duration(tmp)
		return nil
	}

	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(n))
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
