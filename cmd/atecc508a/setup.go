package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type setupConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
}

func (c *setupConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "setup")
	}

	d, closer, err := newDevice(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := d.ReadConfigZone(); err != nil {
		return err
	}
	if d.ConfigZoneLocked() {
		return fmt.Errorf("config zone is already locked, setup would have no effect")
	}

	if err := d.Setup(); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "configured slots 0 and 1 for P-256 private keys")
	fmt.Fprintln(c.out, "run `lock -zone config` to make the configuration permanent")
	return nil
}

func newSetupCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := setupConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc508a setup", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "setup",
		ShortUsage: "setup",
		ShortHelp:  "Configures key slots 0 and 1 on an unlocked device.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
