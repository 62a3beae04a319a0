// Package logger builds the zerolog loggers shared by the web and desktop binaries.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	FieldComponent = "component"
	FieldService   = "service"
)

// Config contains logging configuration.
type Config struct {
	Level   string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format  string `mapstructure:"format" validate:"oneof=console json"`
	Output  string `mapstructure:"output" validate:"omitempty,oneof=stdout stderr"`
	NoColor bool   `mapstructure:"no_color"`
}

// ApplyDefaults fills empty logging fields.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Level = strings.ToLower(c.Level)
	c.Format = strings.ToLower(c.Format)
}

// New creates a service-tagged logger writing to the configured output.
func New(cfg Config, service string) zerolog.Logger {
	return NewWithWriter(cfg, service, outputWriter(cfg.Output))
}

// NewWithWriter creates a service-tagged logger writing to out.
func NewWithWriter(cfg Config, service string, out io.Writer) zerolog.Logger {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str(FieldService, service).
		Logger()
}

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}
