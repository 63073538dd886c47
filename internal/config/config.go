package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr         string
	AllowOrigins string
	LogLevel     string

	// Enables the draw when each side is down to a single Dame.
	InsufficientMaterialDraw bool

	WSReadBuffer  int
	WSWriteBuffer int
}

func Default() Config {
	return Config{
		Addr:                     ":3000",
		AllowOrigins:             "http://localhost:5173",
		LogLevel:                 "info",
		InsufficientMaterialDraw: true,
		WSReadBuffer:             1024,
		WSWriteBuffer:            1024,
	}
}

// Load parses args with flags and then applies DAME_* environment overrides.
// getenv may be nil, in which case os.Getenv is used.
func Load(args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	fs := flag.NewFlagSet("dame-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "comma-separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
	fs.BoolVar(&cfg.InsufficientMaterialDraw, "insufficient-material", cfg.InsufficientMaterialDraw, "declare a draw when each side is down to one Dame")
	fs.IntVar(&cfg.WSReadBuffer, "ws-read-buffer", cfg.WSReadBuffer, "websocket read buffer size in bytes")
	fs.IntVar(&cfg.WSWriteBuffer, "ws-write-buffer", cfg.WSWriteBuffer, "websocket write buffer size in bytes")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if v := getenv("DAME_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("DAME_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := getenv("DAME_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("DAME_INSUFFICIENT_MATERIAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: DAME_INSUFFICIENT_MATERIAL=%q", ErrInvalidConfig, v)
		}
		cfg.InsufficientMaterialDraw = b
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.WSReadBuffer <= 0 || c.WSWriteBuffer <= 0 {
		return fmt.Errorf("%w: websocket buffers must be positive", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Origins splits AllowOrigins for the websocket origin check.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
}
