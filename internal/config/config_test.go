package config

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/go-cmp/cmp"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, env(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFlagsAndEnv(t *testing.T) {
	cfg, err := Load(
		[]string{"-addr", ":8080", "-log-level", "debug", "-ws-read-buffer", "2048"},
		env(map[string]string{
			"DAME_ADDR":                  ":9090",
			"DAME_INSUFFICIENT_MATERIAL": "false",
			"DAME_ALLOW_ORIGINS":         "http://a.test, http://b.test",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Addr = ":9090"
	want.LogLevel = "debug"
	want.WSReadBuffer = 2048
	want.InsufficientMaterialDraw = false
	want.AllowOrigins = "http://a.test, http://b.test"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"http://a.test", "http://b.test"}, cfg.Origins()); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
	level, err := cfg.Level()
	if err != nil || level != log.LevelDebug {
		t.Errorf("Level() = %v, %v; want debug", level, err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad bool", env: map[string]string{"DAME_INSUFFICIENT_MATERIAL": "maybe"}},
		{name: "bad level", args: []string{"-log-level", "loud"}},
		{name: "zero buffer", args: []string{"-ws-write-buffer", "0"}},
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "empty addr", args: []string{"-addr", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, env(tt.env))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
