package storage

import (
	"context"
	"fmt"
)

// SnapshotContracts copies active contracts, plus contracts deactivated
// yesterday, into the daily slices table with yesterday as the fix date.
// Returns how many contract rows were captured.
func (s *Storage) SnapshotContracts(ctx context.Context) (int64, error) {
	const operation = "storage.SnapshotContracts"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO fastzila.slices_contracts (
			id, type, courier_id, entity_id, project_id, region_id, speciality_id,
			start, stop, termin_date, is_active, is_handed_out, created, created_by,
			changed, changed_by, client_doer_id, fix_date
		)
		SELECT id, type, courier_id, entity_id, project_id, region_id, speciality_id,
		       start, stop, termin_date, is_active, is_handed_out, created, created_by,
		       changed, changed_by, client_doer_id,
		       CURRENT_DATE - INTERVAL '1 day'
		FROM fastzila.contracts
		WHERE is_active
		   OR (NOT is_active AND changed::date = CURRENT_DATE - INTERVAL '1 day')`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", operation, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", operation, err)
	}
	return rows, nil
}
