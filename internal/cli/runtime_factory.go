package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/facet"
	"github.com/prometheus/client_golang/prometheus"
)

// manifestNames are picked up when no --classes flag is given.
var manifestNames = []string{"classes.yaml", "classes.yml", "classes.json", "classes.toml"}

// createRuntime initializes a facet runtime with standard CLI conventions.
func createRuntime(classes []string, logger *slog.Logger, promReg prometheus.Registerer, extra ...facet.Option) (*facet.Runtime, error) {
	opts := append([]facet.Option{facet.WithLogger(logger)}, extra...)
	if promReg != nil {
		opts = append(opts, facet.WithMetrics(promReg))
	}

	rt, err := facet.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing runtime: %w", err)
	}
	for _, path := range classes {
		if _, err := rt.LoadManifest(path); err != nil {
			rt.Close()
			return nil, fmt.Errorf("error loading classes: %w", err)
		}
	}
	return rt, nil
}

// resolveManifests returns classes when given. Otherwise it looks for a
// conventional manifest next to script, or in the working directory when
// there is no script.
func resolveManifests(classes []string, script string, logger *slog.Logger) []string {
	if len(classes) > 0 {
		return classes
	}
	dir := "."
	if script != "" {
		dir = filepath.Dir(script)
	}
	if path, ok := discoverManifest(dir); ok {
		logger.Debug("using conventional manifest", "path", path)
		return []string{path}
	}
	return nil
}

// discoverManifest returns the conventional manifest in dir, if any.
func discoverManifest(dir string) (string, bool) {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
