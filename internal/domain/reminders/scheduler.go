package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"medtrack/internal/domain/medications"
	"medtrack/internal/ports/notify"

	"github.com/rs/zerolog"
)

// Kind distingue los dos tipos de reminder de un medicamento.
type Kind string

const (
	KindDose   Kind = "dose"
	KindRefill Kind = "refill"
)

// NextDoseFireTime calcula el próximo disparo para una hora diaria HH:MM:
// hoy a esa hora si todavía no pasó, mañana si ya pasó. El resultado
// siempre queda en el futuro y a lo sumo 24h adelante.
func NextDoseFireTime(t medications.TimeOfDay, now time.Time) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if !fire.After(now) {
		fire = fire.Add(24 * time.Hour)
	}
	return fire
}

// RefillFireTime fija el aviso de refill a las 10:00 locales del día indicado.
func RefillFireTime(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 10, 0, 0, 0, time.Local)
}

// timer abstrae time.Timer para poder inyectar fakes en los tests.
type timer interface {
	Stop() bool
}

type timerKey struct {
	medicationID string
	kind         Kind
}

// Scheduler mantiene los timers en memoria: uno por (medicamento, tipo).
// Armar de nuevo el mismo par cancela el timer anterior, así que Arm es
// idempotente y sirve también para re-armar tras un edit.
type Scheduler struct {
	notifier notify.Notifier
	log      zerolog.Logger

	now       func() time.Time
	afterFunc func(d time.Duration, fn func()) timer

	mu     sync.Mutex
	gen    uint64
	timers map[timerKey]armedTimer
}

// armedTimer lleva el handle y la generación con la que se armó; un
// disparo en vuelo solo puede limpiar/re-armar su propia generación.
type armedTimer struct {
	t   timer
	gen uint64
}

func NewScheduler(notifier notify.Notifier, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		log:      log,
		now:      time.Now,
		afterFunc: func(d time.Duration, fn func()) timer {
			return time.AfterFunc(d, fn)
		},
		timers: map[timerKey]armedTimer{},
	}
}

// Arm programa los reminders activos del medicamento. Un refill cuya
// fecha ya pasó no se programa (el registro puede seguir existiendo con
// la fecha vieja, simplemente no hay nada que avisar).
func (s *Scheduler) Arm(m medications.Medication) {
	if m.DailyReminder && m.ReminderTime != nil {
		fire := NextDoseFireTime(*m.ReminderTime, s.now())
		s.armAt(m, KindDose, fire)
	}
	if m.RefillReminder && m.RefillDate != nil {
		fire := RefillFireTime(*m.RefillDate)
		if fire.After(s.now()) {
			s.armAt(m, KindRefill, fire)
		} else {
			s.log.Debug().
				Str("medication_id", m.ID).
				Time("refill_at", fire).
				Msg("refill en el pasado, no se programa")
		}
	}
}

func (s *Scheduler) armAt(m medications.Medication, kind Kind, fire time.Time) {
	key := timerKey{medicationID: m.ID, kind: kind}
	delay := fire.Sub(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[key]; ok {
		old.t.Stop()
	}
	s.gen++
	gen := s.gen
	s.timers[key] = armedTimer{
		t:   s.afterFunc(delay, func() { s.fire(m, kind, gen) }),
		gen: gen,
	}

	s.log.Info().
		Str("medication_id", m.ID).
		Str("kind", string(kind)).
		Time("fire_at", fire).
		Msg("reminder armado")
}

func (s *Scheduler) fire(m medications.Medication, kind Kind, gen uint64) {
	var title, message string
	switch kind {
	case KindDose:
		title = "Medication Reminder"
		message = fmt.Sprintf("Time to take %s!", m.Name)
	case KindRefill:
		title = "Refill Reminder"
		message = fmt.Sprintf("Time to get more %s!", m.Name)
	}

	// El error del notifier se loguea y nada más: un push fallido no
	// debe tumbar el scheduler ni al resto de los timers.
	if err := s.notifier.Notify(context.Background(), m.OwnerUserID, title, message); err != nil {
		s.log.Error().Err(err).
			Str("medication_id", m.ID).
			Str("kind", string(kind)).
			Msg("no se pudo enviar la notificación")
	}

	// Mientras notificábamos pudo correr un Disarm (entrada ausente) o un
	// re-Arm (entrada con otra generación). En ambos casos el estado nuevo
	// manda: este disparo no limpia ni re-arma nada.
	s.mu.Lock()
	key := timerKey{medicationID: m.ID, kind: kind}
	entry, ok := s.timers[key]
	if !ok || entry.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)
	s.mu.Unlock()

	// El reminder diario se repite: programamos el de mañana.
	if kind == KindDose && m.DailyReminder && m.ReminderTime != nil {
		fire := NextDoseFireTime(*m.ReminderTime, s.now())
		s.armAt(m, KindDose, fire)
	}
}

// Disarm cancela el timer de un tipo puntual, si existe.
func (s *Scheduler) Disarm(medicationID string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := timerKey{medicationID: medicationID, kind: kind}
	if entry, ok := s.timers[key]; ok {
		entry.t.Stop()
		delete(s.timers, key)
	}
}

// DisarmAll cancela todos los timers del medicamento (delete o edit).
func (s *Scheduler) DisarmAll(medicationID string) {
	s.Disarm(medicationID, KindDose)
	s.Disarm(medicationID, KindRefill)
}

// Rearm reconstruye los timers desde los registros persistidos; se llama
// al arrancar el proceso porque los timers viven solo en memoria.
func (s *Scheduler) Rearm(items []medications.Medication) {
	for _, m := range items {
		s.Arm(m)
	}
	s.log.Info().Int("count", len(items)).Msg("reminders re-armados al arranque")
}
