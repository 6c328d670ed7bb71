package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// UnresolvedCourierDates returns the work dates that still have courier shifts
// with empty payment columns. An empty result means the run has nothing to do.
func (s *Storage) UnresolvedCourierDates(ctx context.Context) ([]time.Time, error) {
	const operation = "storage.UnresolvedCourierDates"

	var dates []time.Time
	err := s.db.SelectContext(ctx, &dates, `
		SELECT date_
		FROM analytics.lenta_received_couriers
		WHERE full_payment_client IS NULL
		GROUP BY date_
		ORDER BY date_`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return dates, nil
}

// CourierShiftsOn loads courier shifts for the given work dates.
func (s *Storage) CourierShiftsOn(ctx context.Context, dates []time.Time) ([]CourierShift, error) {
	const operation = "storage.CourierShiftsOn"

	if len(dates) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, courier_id, employee_id, tk_id, division_id, date_, transport_id,
		       courier_name, organisation_id, active_time_hours, first_activation,
		       last_deactivation, orders_delivered, daily_distance,
		       orders_over_twenty_kg, orders_twenty_forty_kg, orders_over_forty_kg,
		       sla_delivery, filename, file_date
		FROM analytics.lenta_received_couriers
		WHERE date_ IN (?)`, dates)
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", operation, err)
	}

	var shifts []CourierShift
	if err := s.db.SelectContext(ctx, &shifts, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return shifts, nil
}

// SaveCourierPayments writes the computed payment columns back onto the shift
// rows in one transaction and reports how many rows changed. Zero is a valid
// outcome for an empty batch.
func (s *Storage) SaveCourierPayments(ctx context.Context, payments []CourierPayment) (int64, error) {
	const operation = "storage.SaveCourierPayments"

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
			UPDATE analytics.lenta_received_couriers
			SET mandatory_client = :mandatory_client,
			    mandatory_doer = :mandatory_doer,
			    hour_client = :hour_client,
			    hour_doer = :hour_doer,
			    order_client = :order_client,
			    order_doer = :order_doer,
			    orders_over_twenty_kg_client = :orders_over_twenty_kg_client,
			    orders_over_twenty_kg_doer = :orders_over_twenty_kg_doer,
			    orders_over_forty_kg_client = :orders_over_forty_kg_client,
			    orders_over_forty_kg_doer = :orders_over_forty_kg_doer,
			    mileage_client = :mileage_client,
			    mileage_doer = :mileage_doer,
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

// UpsertCourierShifts loads parsed report rows into the receiving table.
// A shift already present for (courier, date, TK) is refreshed in place, so
// re-sent reports do not duplicate rows.
func (s *Storage) UpsertCourierShifts(ctx context.Context, shifts []CourierShift) (int64, error) {
	const operation = "storage.UpsertCourierShifts"

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
			INSERT INTO analytics.lenta_received_couriers (
				courier_id, employee_id, tk_id, division_id, date_, transport_id,
				courier_name, organisation_id, active_time_hours, first_activation,
				last_deactivation, orders_delivered, daily_distance,
				orders_over_twenty_kg, orders_twenty_forty_kg, orders_over_forty_kg,
				sla_delivery, filename, file_date
			) VALUES (
				:courier_id, :employee_id, :tk_id, :division_id, :date_, :transport_id,
				:courier_name, :organisation_id, :active_time_hours, :first_activation,
				:last_deactivation, :orders_delivered, :daily_distance,
				:orders_over_twenty_kg, :orders_twenty_forty_kg, :orders_over_forty_kg,
				:sla_delivery, :filename, :file_date
			)
			ON CONFLICT (courier_id, date_, tk_id) DO UPDATE SET
				employee_id = EXCLUDED.employee_id,
				division_id = EXCLUDED.division_id,
				transport_id = EXCLUDED.transport_id,
				courier_name = EXCLUDED.courier_name,
				organisation_id = EXCLUDED.organisation_id,
				active_time_hours = EXCLUDED.active_time_hours,
				first_activation = EXCLUDED.first_activation,
				last_deactivation = EXCLUDED.last_deactivation,
				orders_delivered = EXCLUDED.orders_delivered,
				daily_distance = EXCLUDED.daily_distance,
				orders_over_twenty_kg = EXCLUDED.orders_over_twenty_kg,
				orders_twenty_forty_kg = EXCLUDED.orders_twenty_forty_kg,
				orders_over_forty_kg = EXCLUDED.orders_over_forty_kg,
				sla_delivery = EXCLUDED.sla_delivery,
				filename = EXCLUDED.filename,
				file_date = EXCLUDED.file_date`, sh)
		if err != nil {
			return 0, fmt.Errorf("%s: upsert courier %d on %s: %w",
				operation, sh.CourierID, sh.Date.Format("2006-01-02"), err)
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
