package audit

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// FileConfig holds the sink-specific settings of the file auditor.
type FileConfig struct {
	Path string `mapstructure:"path"`
}

// FromConfig builds an auditor from its type tag and the remaining
// (inline) configuration fields.
func FromConfig(auditorType string, raw map[string]any) (Auditor, error) {
	switch auditorType {
	case "", "file":
		var cfg FileConfig
		if err := mapstructure.Decode(raw, &cfg); err != nil {
			return nil, fmt.Errorf("decoding file auditor config: %w", err)
		}
		if cfg.Path == "" {
			return nil, fmt.Errorf("file auditor requires a path")
		}
		return NewFileAuditor(cfg.Path)
	case "memory":
		return NewInMemoryAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown auditor type '%s'", auditorType)
	}
}
