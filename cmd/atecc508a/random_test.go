package main

import (
	"bytes"
	"context"
	"testing"
)

func TestRandomRejectsNegativeBytes(t *testing.T) {
	var out, errw bytes.Buffer
	cfg := randomConfig{
		rootConfig: &rootConfig{},
		out:        &out,
		err:        &errw,
		bytes:      -1,
	}

	// The argument check must fire before any device access.
	if err := cfg.Exec(context.Background(), nil); err == nil {
		t.Error("expected error for negative byte count")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
