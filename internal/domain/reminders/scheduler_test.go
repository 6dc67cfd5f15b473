package reminders

import (
	"context"
	"sync"
	"testing"
	"time"

	"medtrack/internal/domain/medications"

	"github.com/rs/zerolog"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []fakeNotification
}

type fakeNotification struct {
	recipient string
	title     string
	message   string
}

func (f *fakeNotifier) Notify(_ context.Context, recipient, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeNotification{recipient, title, message})
	return nil
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

// newTestScheduler congela el reloj y captura los timers en vez de
// programarlos de verdad; los tests los disparan a mano con fn().
func newTestScheduler(now time.Time) (*Scheduler, *fakeNotifier, *[]*fakeTimer) {
	notifier := &fakeNotifier{}
	s := NewScheduler(notifier, zerolog.Nop())
	s.now = func() time.Time { return now }

	created := []*fakeTimer{}
	s.afterFunc = func(d time.Duration, fn func()) timer {
		t := &fakeTimer{delay: d, fn: fn}
		created = append(created, t)
		return t
	}
	return s, notifier, &created
}

func TestNextDoseFireTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Hora todavía no pasada: hoy mismo.
	fire := NextDoseFireTime(medications.TimeOfDay{Hour: 21, Minute: 30}, now)
	want := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)
	if !fire.Equal(want) {
		t.Fatalf("esperaba %v, got %v", want, fire)
	}

	// Hora ya pasada: mañana.
	fire = NextDoseFireTime(medications.TimeOfDay{Hour: 8, Minute: 0}, now)
	want = time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	if !fire.Equal(want) {
		t.Fatalf("esperaba %v, got %v", want, fire)
	}

	// Exactamente ahora cuenta como pasada: también mañana.
	fire = NextDoseFireTime(medications.TimeOfDay{Hour: 9, Minute: 0}, now)
	want = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	if !fire.Equal(want) {
		t.Fatalf("esperaba %v, got %v", want, fire)
	}

	// Propiedad: siempre en el futuro y a lo sumo 24h adelante.
	for h := 0; h < 24; h++ {
		fire := NextDoseFireTime(medications.TimeOfDay{Hour: h, Minute: 0}, now)
		d := fire.Sub(now)
		if d <= 0 || d > 24*time.Hour {
			t.Fatalf("hora %02d:00: delay fuera de (0, 24h]: %v", h, d)
		}
	}
}

func TestArmDoseReminder(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s, notifier, timers := newTestScheduler(now)

	rt := medications.TimeOfDay{Hour: 10, Minute: 0}
	m := medications.Medication{
		ID:            "med-1",
		OwnerUserID:   "user-1",
		Name:          "Ibuprofen",
		DailyReminder: true,
		ReminderTime:  &rt,
	}

	s.Arm(m)

	if len(*timers) != 1 {
		t.Fatalf("esperaba 1 timer, got %d", len(*timers))
	}
	if (*timers)[0].delay != time.Hour {
		t.Fatalf("esperaba delay de 1h, got %v", (*timers)[0].delay)
	}

	// Disparamos a mano: notifica y re-arma el de mañana.
	(*timers)[0].fn()

	if len(notifier.calls) != 1 {
		t.Fatalf("esperaba 1 notificación, got %d", len(notifier.calls))
	}
	got := notifier.calls[0]
	if got.recipient != "user-1" || got.title != "Medication Reminder" || got.message != "Time to take Ibuprofen!" {
		t.Fatalf("notificación inesperada: %+v", got)
	}
	if len(*timers) != 2 {
		t.Fatalf("el reminder diario debe re-armarse tras disparar, timers=%d", len(*timers))
	}
}

func TestArmRefillReminder(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s, notifier, timers := newTestScheduler(now)

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	m := medications.Medication{
		ID:             "med-1",
		OwnerUserID:    "user-1",
		Name:           "Insulin",
		RefillReminder: true,
		RefillDate:     &date,
	}

	s.Arm(m)

	if len(*timers) != 1 {
		t.Fatalf("esperaba 1 timer, got %d", len(*timers))
	}
	// 12 de marzo a las 10:00 menos el 10 a las 09:00.
	if want := 49 * time.Hour; (*timers)[0].delay != want {
		t.Fatalf("esperaba delay %v, got %v", want, (*timers)[0].delay)
	}

	(*timers)[0].fn()

	if len(notifier.calls) != 1 {
		t.Fatalf("esperaba 1 notificación, got %d", len(notifier.calls))
	}
	got := notifier.calls[0]
	if got.title != "Refill Reminder" || got.message != "Time to get more Insulin!" {
		t.Fatalf("notificación inesperada: %+v", got)
	}
	// El refill es one-shot: no se re-arma.
	if len(*timers) != 1 {
		t.Fatalf("el refill no debe re-armarse, timers=%d", len(*timers))
	}
}

func TestArmSkipsPastRefill(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	s, _, timers := newTestScheduler(now)

	// Hoy a las 10:00 ya pasó (son las 12:00).
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	m := medications.Medication{
		ID:             "med-1",
		Name:           "Aspirin",
		RefillReminder: true,
		RefillDate:     &date,
	}

	s.Arm(m)

	if len(*timers) != 0 {
		t.Fatalf("un refill pasado no debe programar timers, got %d", len(*timers))
	}
}

func TestArmIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s, _, timers := newTestScheduler(now)

	rt := medications.TimeOfDay{Hour: 10, Minute: 0}
	m := medications.Medication{
		ID:            "med-1",
		DailyReminder: true,
		ReminderTime:  &rt,
	}

	s.Arm(m)
	s.Arm(m)

	if !(*timers)[0].stopped {
		t.Fatal("re-armar debe cancelar el timer anterior")
	}
	if (*timers)[1].stopped {
		t.Fatal("el timer nuevo debe quedar vivo")
	}
	s.mu.Lock()
	n := len(s.timers)
	s.mu.Unlock()
	if n != 1 {
		t.Fatalf("esperaba 1 timer activo, got %d", n)
	}
}

func TestDisarmAll(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s, _, timers := newTestScheduler(now)

	rt := medications.TimeOfDay{Hour: 10, Minute: 0}
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	m := medications.Medication{
		ID:             "med-1",
		DailyReminder:  true,
		ReminderTime:   &rt,
		RefillReminder: true,
		RefillDate:     &date,
	}

	s.Arm(m)
	if len(*timers) != 2 {
		t.Fatalf("esperaba 2 timers, got %d", len(*timers))
	}

	s.DisarmAll("med-1")

	for i, ft := range *timers {
		if !ft.stopped {
			t.Fatalf("timer %d debería estar cancelado", i)
		}
	}
	s.mu.Lock()
	n := len(s.timers)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("no deberían quedar timers registrados, got %d", n)
	}
}

// blockingNotifier frena el Notify hasta que el test lo libera; sirve
// para intercalar Disarm/Arm con un disparo en vuelo.
type blockingNotifier struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingNotifier() *blockingNotifier {
	return &blockingNotifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingNotifier) Notify(context.Context, string, string, string) error {
	close(b.started)
	<-b.release
	return nil
}

func TestDisarmDuringFireCancelsRearm(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	notifier := newBlockingNotifier()
	s := NewScheduler(notifier, zerolog.Nop())
	s.now = func() time.Time { return now }

	var created []*fakeTimer
	s.afterFunc = func(d time.Duration, fn func()) timer {
		ft := &fakeTimer{delay: d, fn: fn}
		created = append(created, ft)
		return ft
	}

	rt := medications.TimeOfDay{Hour: 10, Minute: 0}
	m := medications.Medication{
		ID:            "med-1",
		DailyReminder: true,
		ReminderTime:  &rt,
	}
	s.Arm(m)

	// El timer dispara con el notifier bloqueado; en el medio el usuario
	// apaga el reminder. Al soltar la notificación, el disparo viejo no
	// debe re-armar nada.
	done := make(chan struct{})
	go func() {
		created[0].fn()
		close(done)
	}()

	<-notifier.started
	s.Disarm("med-1", KindDose)
	close(notifier.release)
	<-done

	s.mu.Lock()
	n := len(s.timers)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("el reminder quedó desarmado pero hay %d timer(s) pendientes", n)
	}
	if len(created) != 1 {
		t.Fatalf("no debió crearse un timer nuevo tras el disarm, got %d", len(created))
	}
}

func TestRearmDuringFireKeepsNewTimer(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	notifier := newBlockingNotifier()
	s := NewScheduler(notifier, zerolog.Nop())
	s.now = func() time.Time { return now }

	var created []*fakeTimer
	s.afterFunc = func(d time.Duration, fn func()) timer {
		ft := &fakeTimer{delay: d, fn: fn}
		created = append(created, ft)
		return ft
	}

	rt := medications.TimeOfDay{Hour: 10, Minute: 0}
	m := medications.Medication{
		ID:            "med-1",
		DailyReminder: true,
		ReminderTime:  &rt,
	}
	s.Arm(m)

	// Un PATCH re-arma (DisarmAll + Arm) mientras el disparo viejo sigue
	// notificando: el timer del PATCH debe quedar registrado y el disparo
	// viejo no debe duplicarlo ni sacarlo del mapa.
	done := make(chan struct{})
	go func() {
		created[0].fn()
		close(done)
	}()

	<-notifier.started
	newTime := medications.TimeOfDay{Hour: 22, Minute: 0}
	m2 := m
	m2.ReminderTime = &newTime
	s.DisarmAll("med-1")
	s.Arm(m2)
	close(notifier.release)
	<-done

	s.mu.Lock()
	entry, ok := s.timers[timerKey{medicationID: "med-1", kind: KindDose}]
	n := len(s.timers)
	s.mu.Unlock()

	if n != 1 || !ok {
		t.Fatalf("esperaba exactamente el timer del re-arm registrado, got %d", n)
	}
	if len(created) != 2 {
		t.Fatalf("el disparo viejo no debía crear timers extra, got %d", len(created))
	}
	if entry.t != timer(created[1]) {
		t.Fatal("el timer registrado debe ser el del re-arm, no uno re-creado por el disparo viejo")
	}
	if created[1].stopped {
		t.Fatal("el timer nuevo debe seguir vivo")
	}
}

func TestRearm(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s, _, timers := newTestScheduler(now)

	rt := medications.TimeOfDay{Hour: 10, Minute: 0}
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	items := []medications.Medication{
		{ID: "med-1", DailyReminder: true, ReminderTime: &rt},
		{ID: "med-2", RefillReminder: true, RefillDate: &date},
	}

	s.Rearm(items)

	if len(*timers) != 2 {
		t.Fatalf("esperaba 2 timers re-armados, got %d", len(*timers))
	}
}
