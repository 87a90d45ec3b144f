package localfs

import (
	"flag"
	"fmt"

	"xdao.co/vers/store"
	"xdao.co/vers/store/registry"
)

var (
	flagLocalDir string
)

func init() {
	registry.MustRegister(registry.Backend{
		Name:        "localfs",
		Description: "Local filesystem record store (directory)",
		Usage:       registry.UsageCLI | registry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagLocalDir, "localfs-dir", "", "LocalFS store directory (for --backend=localfs)")
		},
		Open: func() (store.Store, func() error, error) {
			if flagLocalDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			s, err := New(flagLocalDir)
			return s, nil, err
		},
	})
}
