package yamlutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Duration is a time.Duration written in YAML as a Go duration string
// ("250ms", "10s", "1m30s"). A bare 0 is accepted.
type Duration time.Duration

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (d *Duration) UnmarshalYAML(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration: %w", err)
	}

	s := strings.TrimSpace(fmt.Sprint(raw))
	if raw == nil || s == "0" {
		*d = 0
		return nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
