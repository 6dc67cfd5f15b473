// Package lognotify es un Notifier de desarrollo: escribe la
// notificación al log en vez de mandarla a un substrato real.
package lognotify

import (
	"context"

	"github.com/rs/zerolog"
)

type Notifier struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Notify(_ context.Context, recipient, title, message string) error {
	n.log.Info().
		Str("recipient", recipient).
		Str("title", title).
		Str("message", message).
		Msg("notificación (modo dev)")
	return nil
}
