// Package config provides configuration management for quickopen.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name used under each XDG base directory.
const appName = "quickopen"

// Paths holds all the path configurations for quickopen.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/quickopen)
	ConfigDir string

	// DataDir is the directory for data files (~/.local/share/quickopen)
	DataDir string

	// CacheDir is the directory for cache files (~/.cache/quickopen)
	CacheDir string

	// ConfigHome is the XDG config base directory (~/.config). The desktop
	// and bookmark sources read user-dirs.dirs and gtk-3.0/bookmarks from it.
	ConfigHome string

	// DataHome is the XDG data base directory (~/.local/share), which holds
	// the desktop-wide recently-used.xbel registry.
	DataHome string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir:  filepath.Join(appData, appName),
			DataDir:    filepath.Join(localAppData, appName),
			CacheDir:   filepath.Join(localAppData, appName, "cache"),
			ConfigHome: appData,
			DataHome:   localAppData,
		}
	}

	// Unix-like systems follow XDG Base Directory spec
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	return &Paths{
		ConfigDir:  filepath.Join(configHome, appName),
		DataDir:    filepath.Join(dataHome, appName),
		CacheDir:   filepath.Join(cacheHome, appName),
		ConfigHome: configHome,
		DataHome:   dataHome,
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite recent-files database.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "recent.db")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the path to the picker log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "picker.log")
}

// LockFile returns the path to the picker's advisory lock file.
func (p *Paths) LockFile() string {
	return filepath.Join(p.CacheDir, "picker.lock")
}

// RecentlyUsedFile returns the path to the freedesktop recent-files registry.
func (p *Paths) RecentlyUsedFile() string {
	return filepath.Join(p.DataHome, "recently-used.xbel")
}

// UserDirsFile returns the path to the xdg-user-dirs configuration.
func (p *Paths) UserDirsFile() string {
	return filepath.Join(p.ConfigHome, "user-dirs.dirs")
}

// BookmarksFiles returns the GTK bookmark files in lookup order.
func (p *Paths) BookmarksFiles() []string {
	return []string{
		filepath.Join(p.ConfigHome, "gtk-3.0", "bookmarks"),
		filepath.Join(homeDir(), ".gtk-bookmarks"),
	}
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.ConfigDir,
		p.DataDir,
		p.CacheDir,
		p.LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	return homeDir()
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
