package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/0xd219b/cr-helper/internal/core/config"
)

// ConfigCheck verifies the config file parses and validates.
type ConfigCheck struct {
	configPath string
	dataDir    string
}

// NewConfigCheck creates a new config check.
func NewConfigCheck(configPath, dataDir string) *ConfigCheck {
	return &ConfigCheck{configPath: configPath, dataDir: dataDir}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.configPath == "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: "none configured, using defaults",
		})
		return result
	}

	if _, err := os.Stat(c.configPath); os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  c.configPath,
			Status: StatusPass,
			Detail: "not present, using defaults",
		})
		return result
	}

	if _, err := config.Load(c.configPath, c.dataDir); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.configPath,
			Status: StatusFail,
			Detail: fmt.Sprintf("invalid: %v", err),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.configPath,
		Status: StatusPass,
	})
	return result
}
