package notify

import "context"

// Notifier presenta una alerta visible al usuario (push, modal, etc).
// recipient es el identificador del destinatario en el substrato concreto
// (en Pushover, la user key; en dev, el user id para el log).
type Notifier interface {
	Notify(ctx context.Context, recipient, title, message string) error
}
