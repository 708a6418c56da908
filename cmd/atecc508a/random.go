package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/celltrace/go-atecc508a"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type randomConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	bytes      int
}

// randomSink collects entropy words until it has enough bytes.
type randomSink struct {
	want int
	data []byte
	err  error
}

func (s *randomSink) EntropyAvailable(words *atecc508a.EntropyWords, err error) atecc508a.Continue {
	if err != nil {
		s.err = err
		return atecc508a.ContinueDone
	}

	for len(s.data) < s.want {
		w, ok := words.Next()
		if !ok {
			return atecc508a.ContinueMore
		}
		s.data = binary.BigEndian.AppendUint32(s.data, w)
	}
	return atecc508a.ContinueDone
}

func (c *randomConfig) Exec(ctx context.Context, _ []string) error {
	if c.bytes < 0 {
		return errors.New("bytes must not be negative")
	}
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "random")
	}

	d, closer, err := newDevice(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	sink := &randomSink{want: c.bytes}
	src := d.Entropy()
	src.SetClient(sink)
	if err := src.Get(); err != nil {
		return err
	}
	if sink.err != nil {
		return sink.err
	}

	if _, err := c.out.Write(sink.data[:c.bytes]); err != nil {
		return err
	}
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "wrote", c.bytes)
	}
	return nil
}

func newRandomCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := randomConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc508a random", flag.ExitOnError)
	fs.IntVar(&cfg.bytes, "bytes", 32, "bytes to read")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "random",
		ShortUsage: "random",
		ShortHelp:  "Reads random bytes from device and outputs on stdout.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
