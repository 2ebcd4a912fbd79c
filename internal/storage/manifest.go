package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Manifest is a point-in-time record of the published read-only state.
// Operators diff manifests across restarts to spot a changed chain id,
// address or conduit controller.
type Manifest struct {
	CreatedUnix        int64             `json:"created"`
	Name               string            `json:"name"`
	Version            string            `json:"version"`
	ChainID            string            `json:"chain_id"`
	VerifyingContract  string            `json:"verifying_contract"`
	DomainSeparator    string            `json:"domain_separator"`
	TypeHashes         map[string]string `json:"type_hashes"`
	ConduitController  string            `json:"conduit_controller"`
	ConduitCodeHash    string            `json:"conduit_code_hash"`
	ConduitRuntimeHash string            `json:"conduit_runtime_hash"`
}

// ManifestManager handles saving and loading manifests.
type ManifestManager struct {
	dir string
}

// NewManifestManager creates a manifest manager rooted at dir.
func NewManifestManager(dir string) *ManifestManager {
	return &ManifestManager{dir: dir}
}

type manifestFile struct {
	path    string
	created int64
}

// Save writes a manifest to disk and returns its path.
func (mm *ManifestManager) Save(m *Manifest) (string, error) {
	if err := os.MkdirAll(mm.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	// Names carry a nanosecond stamp; on a clash the stamp is bumped so no
	// earlier manifest is overwritten.
	stamp := time.Now().UnixNano()
	var path string
	for {
		path = filepath.Join(mm.dir, fmt.Sprintf("manifest_%s_%d.json", m.ChainID, stamp))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, fs.ErrExist) {
			stamp++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create manifest: %w", err)
		}
		_, werr := f.Write(data)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			return "", fmt.Errorf("failed to write manifest: %w", errors.Join(werr, cerr))
		}
		break
	}

	slog.Info("Manifest saved",
		slog.String("chain_id", m.ChainID),
		slog.String("path", path))
	return path, nil
}

// LoadLatest loads the most recent manifest. Returns nil if none exists.
func (mm *ManifestManager) LoadLatest() (*Manifest, error) {
	files, err := mm.list()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	data, err := os.ReadFile(files[0].path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Cleanup removes old manifests, keeping only the latest keepCount.
func (mm *ManifestManager) Cleanup(keepCount int) error {
	if keepCount < 0 {
		keepCount = 0
	}
	files, err := mm.list()
	if err != nil {
		return err
	}

	for i := keepCount; i < len(files); i++ {
		if err := os.Remove(files[i].path); err != nil {
			slog.Warn("Failed to remove old manifest", slog.String("path", files[i].path))
		} else {
			slog.Info("Removed old manifest", slog.String("path", files[i].path))
		}
	}
	return nil
}

// list returns manifest files newest first.
func (mm *ManifestManager) list() ([]manifestFile, error) {
	entries, err := os.ReadDir(mm.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manifest dir: %w", err)
	}

	var files []manifestFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		created, ok := parseManifestName(entry.Name())
		if !ok {
			continue // Not a manifest file
		}
		files = append(files, manifestFile{path: filepath.Join(mm.dir, entry.Name()), created: created})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].created > files[j].created })
	return files, nil
}

// parseManifestName extracts the creation timestamp from
// manifest_<chainID>_<unixNano>.json.
func parseManifestName(name string) (int64, bool) {
	if !strings.HasPrefix(name, "manifest_") || !strings.HasSuffix(name, ".json") {
		return 0, false
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(name, "manifest_"), ".json"), "_")
	if len(parts) != 2 {
		return 0, false
	}
	created, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return created, true
}
