package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	AppName = "consideration"
)

// GetWorkspaceDir returns the root directory for all runtime data.
// CONSIDERATION_WORKSPACE wins, then a local "_workspace" directory
// (dev mode), then the OS data directory.
func GetWorkspaceDir() string {
	if dir := os.Getenv("CONSIDERATION_WORKSPACE"); dir != "" {
		return dir
	}

	localDir := "_workspace"
	if _, err := os.Stat(localDir); err == nil {
		return localDir
	}

	var baseDir string
	switch runtime.GOOS {
	case "windows":
		// %AppData%\consideration
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			baseDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		// ~/Library/Application Support/consideration
		home, _ := os.UserHomeDir()
		baseDir = filepath.Join(home, "Library", "Application Support")
	case "linux":
		// $XDG_DATA_HOME/consideration
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome != "" {
			baseDir = dataHome
		} else {
			home, _ := os.UserHomeDir()
			baseDir = filepath.Join(home, ".local", "share")
		}
	default:
		// Fallback to local
		return localDir
	}

	return filepath.Join(baseDir, AppName)
}

// DataDir is where the store and manifests live, one directory per chain.
func DataDir(workDir string, chainID string) string {
	return filepath.Join(workDir, "data", chainID)
}

// EnsureDir creates the directory if it doesn't exist with safe permissions (0755).
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CreateLockFile attempts to create and lock a file to prevent multiple instances.
// It returns a closer function and an error if another instance is already running.
func CreateLockFile(workDir string) (func(), error) {
	lockPath := filepath.Join(workDir, "instance.lock")

	// O_EXCL create: a second process fails fast.
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another instance is already running (lock file exists: %s)", lockPath)
		}
		return nil, err
	}

	fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()

	closer := func() {
		os.Remove(lockPath)
	}

	return closer, nil
}

// ResolveConfigPath finds config.yaml.
// Priority: CONSIDERATION_CONFIG, ./configs, OS config dir.
func ResolveConfigPath() string {
	if p := os.Getenv("CONSIDERATION_CONFIG"); p != "" {
		return p
	}

	defaultPath := filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath
	}

	configRoot, err := os.UserConfigDir()
	if err == nil {
		osPath := filepath.Join(configRoot, AppName, "config.yaml")
		if _, err := os.Stat(osPath); err == nil {
			return osPath
		}
	}

	// Return default and let LoadConfig handle the "file not found" error if it's really missing
	return defaultPath
}
