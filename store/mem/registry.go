package mem

import (
	"flag"

	"xdao.co/vers/store"
	"xdao.co/vers/store/registry"
)

func init() {
	registry.MustRegister(registry.Backend{
		Name:          "mem",
		Description:   "In-memory record store (contents lost on exit)",
		Usage:         registry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {},
		Open: func() (store.Store, func() error, error) {
			return New(), nil, nil
		},
	})
}
