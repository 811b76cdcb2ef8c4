package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .acm/ project directory.
type Paths struct {
	Root   string // .acm/
	DB     string // .acm/acm.db
	Config string // .acm/acm.yaml

	LogDir    string // .acm/log/
	DaemonLog string // .acm/log/daemon.log

	RunDir   string // .acm/run/
	PIDFile  string // .acm/run/daemon.pid
	PortFile string // .acm/run/http.port
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".acm")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "acm.db"),
		Config: filepath.Join(root, "acm.yaml"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:   filepath.Join(root, "run"),
		PIDFile:  filepath.Join(root, "run", "daemon.pid"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories under .acm/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes runtime files (PID file and port file).
// Called on clean shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
	os.Remove(p.PortFile)
}
