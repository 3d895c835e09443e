// Package commands implements the CLI commands.
package commands

import (
	"os"
	"path/filepath"

	"github.com/0xd219b/cr-helper/internal/core/config"
	"github.com/0xd219b/cr-helper/internal/core/git"
	"github.com/0xd219b/cr-helper/internal/core/session"
	"github.com/0xd219b/cr-helper/internal/export"
	"github.com/0xd219b/cr-helper/pkg/executil"
)

// Flags holds global flag values plus the services wired up in the
// root command's Before hook.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Populated in the Before hook and available to all commands.
	Config    *config.Config
	Exec      executil.Executor
	Git       git.Git
	Sessions  *session.Manager
	Exporters *export.Manager
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cr-helper", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cr-helper")
}
