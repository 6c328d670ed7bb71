package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Picker reports delivered before this date used a different workbook layout
// and were settled by hand; they never enter the calculation.
var pickerFileCutoff = time.Date(2022, time.May, 11, 0, 0, 0, 0, time.UTC)

// UnresolvedPickerDates returns the work dates that still have picker shifts
// with empty payment columns.
func (s *Storage) UnresolvedPickerDates(ctx context.Context) ([]time.Time, error) {
	const operation = "storage.UnresolvedPickerDates"

	var dates []time.Time
	err := s.db.SelectContext(ctx, &dates, `
		SELECT date_
		FROM analytics.lenta_received_pickers
		WHERE full_payment_doer IS NULL AND file_date > $1
		GROUP BY date_
		ORDER BY date_`, pickerFileCutoff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return dates, nil
}

// PickerShiftsOn loads picker shifts for the given work dates. Shifts without
// a first-activation timestamp are incomplete and excluded from payment.
func (s *Storage) PickerShiftsOn(ctx context.Context, dates []time.Time) ([]PickerShift, error) {
	const operation = "storage.PickerShiftsOn"

	if len(dates) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, picker_id, employee_id, tk_id, division_id, date_, picker_name,
		       organisation_id, active_time_hours, first_activation, last_deactivation,
		       orders_picked, ordered_units, picked_units, ordered_sku, picked_sku,
		       changed_sku, pick_fullness, sla_reaction, sla_pick, filename, file_date
		FROM analytics.lenta_received_pickers
		WHERE date_ IN (?) AND first_activation IS NOT NULL`, dates)
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", operation, err)
	}

	var shifts []PickerShift
	if err := s.db.SelectContext(ctx, &shifts, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return shifts, nil
}

// SavePickerPayments writes the computed payment columns back onto the shift
// rows in one transaction and reports how many rows changed.
func (s *Storage) SavePickerPayments(ctx context.Context, payments []PickerPayment) (int64, error) {
	const operation = "storage.SavePickerPayments"

	if len(payments) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	var changed int64
	for _, p := range payments {
		res, err := tx.NamedExecContext(ctx, `
			UPDATE analytics.lenta_received_pickers
			SET hour_day_client = :hour_day_client,
			    hour_day_doer = :hour_day_doer,
			    hour_night_client = :hour_night_client,
			    hour_night_doer = :hour_night_doer,
			    picked_sku_client = :picked_sku_client,
			    picked_sku_doer = :picked_sku_doer,
			    full_payment_client = :full_payment_client,
			    full_payment_doer = :full_payment_doer
			WHERE id = :id`, p)
		if err != nil {
			return 0, fmt.Errorf("%s: update record %d: %w", operation, p.RecordID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: rows affected: %w", operation, err)
		}
		changed += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", operation, err)
	}
	return changed, nil
}

// UpsertPickerShifts loads parsed report rows into the receiving table,
// refreshing rows already present for (picker, date, TK).
func (s *Storage) UpsertPickerShifts(ctx context.Context, shifts []PickerShift) (int64, error) {
	const operation = "storage.UpsertPickerShifts"

	if len(shifts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	var changed int64
	for _, sh := range shifts {
		res, err := tx.NamedExecContext(ctx, `
			INSERT INTO analytics.lenta_received_pickers (
				picker_id, employee_id, tk_id, division_id, date_, picker_name,
				organisation_id, active_time_hours, first_activation, last_deactivation,
				orders_picked, ordered_units, picked_units, ordered_sku, picked_sku,
				changed_sku, pick_fullness, sla_reaction, sla_pick, filename, file_date
			) VALUES (
				:picker_id, :employee_id, :tk_id, :division_id, :date_, :picker_name,
				:organisation_id, :active_time_hours, :first_activation, :last_deactivation,
				:orders_picked, :ordered_units, :picked_units, :ordered_sku, :picked_sku,
				:changed_sku, :pick_fullness, :sla_reaction, :sla_pick, :filename, :file_date
			)
			ON CONFLICT (picker_id, date_, tk_id) DO UPDATE SET
				employee_id = EXCLUDED.employee_id,
				division_id = EXCLUDED.division_id,
				picker_name = EXCLUDED.picker_name,
				organisation_id = EXCLUDED.organisation_id,
				active_time_hours = EXCLUDED.active_time_hours,
				first_activation = EXCLUDED.first_activation,
				last_deactivation = EXCLUDED.last_deactivation,
				orders_picked = EXCLUDED.orders_picked,
				ordered_units = EXCLUDED.ordered_units,
				picked_units = EXCLUDED.picked_units,
				ordered_sku = EXCLUDED.ordered_sku,
				picked_sku = EXCLUDED.picked_sku,
				changed_sku = EXCLUDED.changed_sku,
				pick_fullness = EXCLUDED.pick_fullness,
				sla_reaction = EXCLUDED.sla_reaction,
				sla_pick = EXCLUDED.sla_pick,
				filename = EXCLUDED.filename,
				file_date = EXCLUDED.file_date`, sh)
		if err != nil {
			return 0, fmt.Errorf("%s: upsert picker %d on %s: %w",
				operation, sh.PickerID, sh.Date.Format("2006-01-02"), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: rows affected: %w", operation, err)
		}
		changed += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", operation, err)
	}
	return changed, nil
}
