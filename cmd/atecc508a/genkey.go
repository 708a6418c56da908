package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type genKeyConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	slot       uint
}

func (c *genKeyConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "genkey slot", c.slot)
	}

	d, closer, err := newDevice(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := d.CreateKeyPair(uint16(c.slot)); err != nil {
		return err
	}

	pk, err := d.PublicKeyECDSA()
	if err != nil {
		return err
	}
	pem, err := pemEncodePublicKey(pk)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(c.out, pem)
	return err
}

func newGenKeyCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := genKeyConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc508a genkey", flag.ExitOnError)
	fs.UintVar(&cfg.slot, "slot", 0, "key slot to generate into")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "genkey",
		ShortUsage: "genkey [-slot n]",
		ShortHelp:  "Generates a new private key and prints the public key as PEM.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
