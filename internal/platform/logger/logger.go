// Package logger entrega un zerolog.Logger ya configurado para el servicio.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New crea el logger base: JSON a stdout, con service y timestamp.
// level acepta debug|info|warn|error; cualquier otra cosa cae a info.
func New(service, level string) zerolog.Logger {
	l := zerolog.New(os.Stdout).
		Level(ParseLevel(level)).
		With().
		Timestamp()

	if strings.TrimSpace(service) != "" {
		l = l.Str("service", strings.TrimSpace(service))
	}

	return l.Logger()
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
