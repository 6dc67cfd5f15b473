package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medtrack/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, owner_user_id,
			name, dosage_amount, dosage_form, frequency, instructions,
			daily_reminder, reminder_time,
			refill_reminder, refill_date,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.DosageAmount,
		string(m.DosageForm),
		string(m.Frequency),
		m.Instructions,
		m.DailyReminder,
		toNullTimeOfDay(m.ReminderTime),
		m.RefillReminder,
		toNullDate(m.RefillDate),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage_amount = $3,
			dosage_form = $4,
			frequency = $5,
			instructions = $6,
			daily_reminder = $7,
			reminder_time = $8,
			refill_reminder = $9,
			refill_date = $10,
			updated_at = $11
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.DosageAmount,
		string(m.DosageForm),
		string(m.Frequency),
		m.Instructions,
		m.DailyReminder,
		toNullTimeOfDay(m.ReminderTime),
		m.RefillReminder,
		toNullDate(m.RefillDate),
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, medicationSelect+` WHERE id = $1`, id)

	m, err := scanMedication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		medicationSelect+` WHERE owner_user_id = $1 ORDER BY created_at ASC`,
		ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedications(rows)
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) ListReminderEnabled(ctx context.Context) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx,
		medicationSelect+` WHERE daily_reminder OR refill_reminder ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedications(rows)
}

const medicationSelect = `
	SELECT
		id, owner_user_id,
		name, dosage_amount, dosage_form, frequency, instructions,
		daily_reminder, reminder_time,
		refill_reminder, refill_date,
		created_at, updated_at
	FROM medications
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var form, freq string
	var rt sql.NullString
	var rd sql.NullTime

	if err := row.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.DosageAmount,
		&form,
		&freq,
		&m.Instructions,
		&m.DailyReminder,
		&rt,
		&m.RefillReminder,
		&rd,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	m.DosageForm = medications.DosageForm(form)
	m.Frequency = medications.Frequency(freq)

	if rt.Valid {
		// reminder_time se guarda como texto HH:MM
		t, err := medications.ParseTimeOfDay(rt.String)
		if err == nil {
			m.ReminderTime = &t
		}
	}
	if rd.Valid {
		// ojo: refill_date es date, pgx lo puede mapear a time.Time midnight UTC
		t := rd.Time
		m.RefillDate = &t
	}

	return m, nil
}

func collectMedications(rows *sql.Rows) ([]medications.Medication, error) {
	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func toNullTimeOfDay(t *medications.TimeOfDay) sql.NullString {
	if t == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

// refill_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
