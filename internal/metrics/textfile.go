package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes every metric gathered from reg to path in the Prometheus text
// exposition format, creating the parent directory first.
func WriteTextfile(reg *prom.Registry, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return prom.WriteToTextfile(path, reg)
}
