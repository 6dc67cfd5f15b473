package medications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	byID map[string]Medication
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]Medication{}}
}

func (f *fakeRepo) Create(_ context.Context, m Medication) error {
	f.byID[m.ID] = m
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Medication, error) {
	m, ok := f.byID[id]
	if !ok {
		return Medication{}, errors.New("no existe")
	}
	return m, nil
}

func (f *fakeRepo) ListByOwner(_ context.Context, ownerUserID string) ([]Medication, error) {
	var out []Medication
	for _, m := range f.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, m Medication) error {
	if _, ok := f.byID[m.ID]; !ok {
		return errors.New("no existe")
	}
	f.byID[m.ID] = m
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) ListReminderEnabled(_ context.Context) ([]Medication, error) {
	var out []Medication
	for _, m := range f.byID {
		if m.DailyReminder || m.RefillReminder {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestCreateMedicationOK(t *testing.T) {
	svc, repo := newTestService()

	rt := TimeOfDay{Hour: 8, Minute: 30}
	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:          "  Ibuprofen ",
		DosageAmount:  "200 mg",
		DosageForm:    "Tablet",
		Frequency:     "Daily",
		DailyReminder: true,
		ReminderTime:  &rt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == "" {
		t.Fatal("esperaba un id generado")
	}
	if m.Name != "Ibuprofen" {
		t.Fatalf("esperaba nombre con trim, got %q", m.Name)
	}
	if !m.CreatedAt.Equal(m.UpdatedAt) {
		t.Fatal("CreatedAt y UpdatedAt deben coincidir al crear")
	}
	if _, ok := repo.byID[m.ID]; !ok {
		t.Fatal("el registro no quedó persistido")
	}
}

func TestCreateMedicationValidation(t *testing.T) {
	svc, _ := newTestService()
	rt := TimeOfDay{Hour: 8, Minute: 0}

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"sin nombre", CreateInput{DosageAmount: "5 ml", DosageForm: "Liquid"}},
		{"sin dosage amount", CreateInput{Name: "X", DosageForm: "Liquid"}},
		{"dosage form inválido", CreateInput{Name: "X", DosageAmount: "1", DosageForm: "Pill"}},
		{"frequency inválida", CreateInput{Name: "X", DosageAmount: "1", DosageForm: "Tablet", Frequency: "Hourly"}},
		{"daily reminder sin hora", CreateInput{Name: "X", DosageAmount: "1", DosageForm: "Tablet", DailyReminder: true}},
		{"hora sin daily reminder", CreateInput{Name: "X", DosageAmount: "1", DosageForm: "Tablet", ReminderTime: &rt}},
		{"refill reminder sin fecha", CreateInput{Name: "X", DosageAmount: "1", DosageForm: "Tablet", RefillReminder: true}},
	}

	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), "user-1", tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: esperaba ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestGetByIDOwnership(t *testing.T) {
	svc, _ := newTestService()

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name: "Paracetamol", DosageAmount: "500 mg", DosageForm: "Tablet",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), m.ID, "user-1"); err != nil {
		t.Fatalf("el dueño debería poder leer su registro: %v", err)
	}

	// Otro usuario recibe not found, no forbidden.
	if _, err := svc.GetByID(context.Background(), m.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound para otro usuario, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService()
	rt := TimeOfDay{Hour: 21, Minute: 15}

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:          "Amoxicillin",
		DosageAmount:  "250 mg",
		DosageForm:    "Capsule",
		Frequency:     "Every 8 hours",
		Instructions:  "Take with food",
		DailyReminder: true,
		ReminderTime:  &rt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	later := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	newAmount := "500 mg"
	updated, err := svc.Update(context.Background(), m.ID, "user-1", UpdateInput{
		DosageAmount: &newAmount,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.DosageAmount != "500 mg" {
		t.Fatalf("esperaba dosage actualizado, got %q", updated.DosageAmount)
	}
	// Los campos no enviados no se tocan.
	if updated.Name != "Amoxicillin" || updated.Instructions != "Take with food" {
		t.Fatal("un PATCH parcial no debe tocar campos ausentes")
	}
	if !updated.DailyReminder || updated.ReminderTime == nil {
		t.Fatal("el reminder debe sobrevivir un PATCH que no lo menciona")
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt debe avanzar, got %v", updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(m.CreatedAt) {
		t.Fatal("CreatedAt no debe cambiar en un update")
	}
}

func TestUpdateTurnsOffReminder(t *testing.T) {
	svc, _ := newTestService()
	rt := TimeOfDay{Hour: 7, Minute: 0}

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name: "Insulin", DosageAmount: "10 units", DosageForm: "Injection",
		DailyReminder: true, ReminderTime: &rt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	off := false
	updated, err := svc.Update(context.Background(), m.ID, "user-1", UpdateInput{
		DailyReminder: &off,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.DailyReminder || updated.ReminderTime != nil {
		t.Fatal("apagar el reminder debe limpiar también la hora")
	}
}

func TestUpdateClearInstructions(t *testing.T) {
	svc, _ := newTestService()

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name: "Omeprazole", DosageAmount: "20 mg", DosageForm: "Capsule",
		Instructions: "Before breakfast",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	empty := ""
	updated, err := svc.Update(context.Background(), m.ID, "user-1", UpdateInput{
		Instructions: &empty,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Instructions != "" {
		t.Fatalf("un vacío explícito debe limpiar instrucciones, got %q", updated.Instructions)
	}
}

func TestUpdateRevalidatesInvariants(t *testing.T) {
	svc, _ := newTestService()
	rt := TimeOfDay{Hour: 7, Minute: 0}

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name: "Vitamin D", DosageAmount: "1000 IU", DosageForm: "Tablet",
		DailyReminder: true, ReminderTime: &rt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Limpiar la hora dejando el reminder activo viola el invariante.
	_, err = svc.Update(context.Background(), m.ID, "user-1", UpdateInput{
		ReminderTime: PatchTime{Present: true, Value: nil},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("esperaba ErrInvalidInput, got %v", err)
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	svc, repo := newTestService()

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name: "Aspirin", DosageAmount: "100 mg", DosageForm: "Tablet",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), m.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("otro usuario no puede borrar, got %v", err)
	}
	if err := svc.Delete(context.Background(), m.ID, "user-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.byID[m.ID]; ok {
		t.Fatal("el registro debería haberse borrado")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("08:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}
	if got.Hour != 8 || got.Minute != 30 {
		t.Fatalf("esperaba 08:30, got %v", got)
	}

	// El formato es estricto: dos dígitos, dos puntos, dos dígitos.
	for _, bad := range []string{"", "25:00", "10:61", "abc", "-1:30", "08:30xyz", "8:30", "8:5", "0830", "08-30"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("ParseTimeOfDay(%q): esperaba error", bad)
		}
	}
}
