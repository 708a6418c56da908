package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/template"

	"github.com/celltrace/go-atecc508a"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type infoConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	json       bool
}

func (c *infoConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "info\n")
	}

	d, closer, err := newDevice(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	di, err := getDeviceInfo(d)
	if err != nil {
		return err
	}

	if c.json {
		return writeJSON(c.out, di)
	} else {
		return writeText(c.out, di)
	}
}

const deviceInfoTemplate = `
Serial number:
{{ hex .SerialNumber }}

Revision:
{{ hex .Revision }}

Check Device Locks
    Config Zone is {{ locked .IsConfigZoneLocked }}
    Data Zone is {{ locked .IsDataZoneLocked }}
    Slot 0 is {{ locked .IsSlot0Locked }}

{{ if .PublicKey -}}
{{ .PublicKey -}}
{{- end }}
Done
`

func writeText(w io.Writer, di *deviceInfo) error {
	funcs := template.FuncMap{
		"hex": prettyHex,
		"locked": func(b bool) string {
			if b {
				return "locked"
			} else {
				return "unlocked"
			}
		},
	}
	t, err := template.New("info").Funcs(funcs).Parse(deviceInfoTemplate)
	if err != nil {
		return err
	}

	return t.Execute(w, di)
}

func writeJSON(w io.Writer, data any) error {
	j, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		return err
	}
	_, err = w.Write(j)
	return err
}

func newInfoCmd(
	rootConfig *rootConfig, out io.Writer, err io.Writer,
) *ffcli.Command {
	cfg := infoConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc508a info", flag.ExitOnError)
	fs.BoolVar(&cfg.json, "json", false, "output in json mode")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "info",
		ShortUsage: "info",
		ShortHelp:  "Returns information about the hardware security module.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}

type deviceInfo struct {
	SerialNumber       []byte `json:"serial_number"`
	Revision           []byte `json:"revision"`
	IsConfigZoneLocked bool   `json:"is_config_zone_locked"`
	IsDataZoneLocked   bool   `json:"is_data_zone_locked"`
	IsSlot0Locked      bool   `json:"is_slot0_locked"`
	PublicKey          string `json:"public_key,omitempty"`
}

func getDeviceInfo(d *atecc508a.Dev) (*deviceInfo, error) {
	if err := d.ReadConfigZone(); err != nil {
		return nil, err
	}

	var di = &deviceInfo{}
	var err error
	di.SerialNumber, err = d.SerialNumber()
	if err != nil {
		return nil, err
	}
	di.Revision, err = d.Revision()
	if err != nil {
		return nil, err
	}

	di.IsConfigZoneLocked = d.ConfigZoneLocked()
	di.IsDataZoneLocked = d.DataZoneLocked()
	di.IsSlot0Locked = d.SlotLocked().Locked(0)

	if pk, err := d.PublicKeyECDSA(); err == nil {
		pub, err := pemEncodePublicKey(pk)
		if err != nil {
			return nil, err
		}
		di.PublicKey = pub
	} else if !errors.Is(err, atecc508a.ErrKeyNotReady) {
		return nil, err
	}

	return di, nil
}
