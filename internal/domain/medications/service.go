package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	DosageAmount string
	DosageForm   string
	Frequency    string
	Instructions string

	DailyReminder bool
	ReminderTime  *TimeOfDay

	RefillReminder bool
	RefillDate     *time.Time
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,

		Name:         strings.TrimSpace(in.Name),
		DosageAmount: strings.TrimSpace(in.DosageAmount),
		DosageForm:   DosageForm(strings.TrimSpace(in.DosageForm)),
		Frequency:    Frequency(strings.TrimSpace(in.Frequency)),
		Instructions: strings.TrimSpace(in.Instructions),

		DailyReminder: in.DailyReminder,
		ReminderTime:  in.ReminderTime,

		RefillReminder: in.RefillReminder,
		RefillDate:     in.RefillDate,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := validate(m); err != nil {
		return Medication{}, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// GetByID aplica ownership: un registro de otro usuario se reporta
// como not found, nunca como forbidden (no filtramos existencia).
func (s *Service) GetByID(ctx context.Context, id, ownerUserID string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}
	if m.OwnerUserID != ownerUserID {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// PatchTime distingue "campo no enviado" (Present=false) de
// "enviado null/vacío" (Present=true, Value=nil). Igual para PatchDate.
// Así un clear intencional no se pierde (antes el edit solo escribía
// campos truthy y un clear quedaba silenciosamente descartado).
type PatchTime struct {
	Present bool
	Value   *TimeOfDay
}

type PatchDate struct {
	Present bool
	Value   *time.Time
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string
	DosageAmount *string
	DosageForm   *string
	Frequency    *string
	Instructions *string

	DailyReminder *bool
	ReminderTime  PatchTime

	RefillReminder *bool
	RefillDate     PatchDate
}

func (s *Service) Update(ctx context.Context, id, ownerUserID string, in UpdateInput) (Medication, error) {
	m, err := s.GetByID(ctx, id, ownerUserID)
	if err != nil {
		return Medication{}, err
	}

	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.DosageAmount != nil {
		m.DosageAmount = strings.TrimSpace(*in.DosageAmount)
	}
	if in.DosageForm != nil {
		m.DosageForm = DosageForm(strings.TrimSpace(*in.DosageForm))
	}
	if in.Frequency != nil {
		m.Frequency = Frequency(strings.TrimSpace(*in.Frequency))
	}
	if in.Instructions != nil {
		// Vacío explícito = limpiar instrucciones; es un campo opcional.
		m.Instructions = strings.TrimSpace(*in.Instructions)
	}

	if in.DailyReminder != nil {
		m.DailyReminder = *in.DailyReminder
		if !m.DailyReminder {
			m.ReminderTime = nil
		}
	}
	if in.ReminderTime.Present {
		m.ReminderTime = in.ReminderTime.Value
	}

	if in.RefillReminder != nil {
		m.RefillReminder = *in.RefillReminder
		if !m.RefillReminder {
			m.RefillDate = nil
		}
	}
	if in.RefillDate.Present {
		m.RefillDate = in.RefillDate.Value
	}

	m.UpdatedAt = s.now()

	// Los invariantes se revalidan sobre el registro ya mergeado.
	if err := validate(m); err != nil {
		return Medication{}, err
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	if _, err := s.GetByID(ctx, id, ownerUserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validate(m Medication) error {
	if m.Name == "" || m.DosageAmount == "" || m.DosageForm == "" {
		return ErrInvalidInput
	}
	if !ValidDosageForm(string(m.DosageForm)) {
		return ErrInvalidInput
	}
	if m.Frequency != "" && !ValidFrequency(string(m.Frequency)) {
		return ErrInvalidInput
	}

	// reminder activo ⟺ hora/fecha presente
	if m.DailyReminder != (m.ReminderTime != nil) {
		return ErrInvalidInput
	}
	if m.RefillReminder != (m.RefillDate != nil) {
		return ErrInvalidInput
	}

	return nil
}
