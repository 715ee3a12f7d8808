package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mojwgsl/internal/prof"
)

// setupProfiling starts the profiles requested on the root command and
// returns their cleanup.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPUPath, err = flags.GetString("cpu-profile"); err != nil {
		return nil, err
	}
	if cfg.MemPath, err = flags.GetString("mem-profile"); err != nil {
		return nil, err
	}
	if cfg.TracePath, err = flags.GetString("go-trace"); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
