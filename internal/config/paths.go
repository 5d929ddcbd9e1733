package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const (
	AppName        = "altp"
	TargetAppName  = "alacritty"
	TargetFileName = TargetAppName + ".toml"
	StateFileName  = AppName + ".toml"
)

// Env carries the ambient values default paths are derived from. It is
// resolved once at startup so tests can substitute a fixed home.
type Env struct {
	Home string
	GOOS string
	Cwd  string
}

func DefaultEnv() Env {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Env{
		Home: xdg.Home,
		GOOS: runtime.GOOS,
		Cwd:  cwd,
	}
}

// AppConfigDir returns the per-user config directory for app.
func (e Env) AppConfigDir(app string) string {
	if e.GOOS == "windows" {
		return filepath.Join(e.Home, "AppData", "Roaming", app)
	}
	return filepath.Join(e.Home, ".config", app)
}

func (e Env) ToolConfigDir() string {
	return e.AppConfigDir(AppName)
}

func (e Env) TargetDir(override string) string {
	if override != "" {
		return override
	}
	return e.AppConfigDir(TargetAppName)
}

func (e Env) TargetConfigPath(override string) string {
	return filepath.Join(e.TargetDir(override), TargetFileName)
}

// StatePath shares the override directory with the target config when one is
// given; otherwise it lives under the tool's own config directory.
func (e Env) StatePath(override string) string {
	if override != "" {
		return filepath.Join(override, StateFileName)
	}
	return filepath.Join(e.ToolConfigDir(), StateFileName)
}

func (e Env) ThemesDir() string {
	return filepath.Join(e.ToolConfigDir(), "themes")
}
