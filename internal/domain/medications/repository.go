package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error

	// ListReminderEnabled devuelve todos los registros con algún reminder
	// activo; lo usa el scheduler para re-armar timers al arrancar.
	ListReminderEnabled(ctx context.Context) ([]Medication, error)
}
