package medications

import (
	"errors"
	"fmt"
	"time"
)

// TimeOfDay es una hora local HH:MM (sin fecha ni zona).
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay acepta exactamente "HH:MM" en 24h, con cero a la
// izquierda; nada de dígitos sueltos ni basura al final.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, errors.New("time must be HH:MM")
	}
	for i, c := range s {
		if i == 2 {
			continue
		}
		if c < '0' || c > '9' {
			return TimeOfDay{}, errors.New("time must be HH:MM")
		}
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return TimeOfDay{}, errors.New("time must be HH:MM")
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// Medication es el registro de un medicamento de un usuario.
//
// Invariantes (se validan en el service):
// - DailyReminder == true  ⟺ ReminderTime != nil
// - RefillReminder == true ⟺ RefillDate != nil
// - Name, DosageAmount y DosageForm no vacíos antes de persistir.
type Medication struct {
	ID          string
	OwnerUserID string

	Name         string
	DosageAmount string // texto libre, ej "200 mg"
	DosageForm   DosageForm
	Frequency    Frequency
	Instructions string

	DailyReminder bool
	ReminderTime  *TimeOfDay

	RefillReminder bool
	RefillDate     *time.Time // solo fecha; la hora de aviso la fija el scheduler

	CreatedAt time.Time
	UpdatedAt time.Time
}
