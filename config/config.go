package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile reads batch options from a yaml file and applies its encoding.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config %q", path)
	}

	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config %q", path)
	}

	if o.Encoding != "" {
		if err := SetEncoding(o.Encoding); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (o *Options) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}
