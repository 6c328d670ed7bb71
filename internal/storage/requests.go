package storage

import (
	"context"
	"fmt"
)

// InsertStaffingRequests appends demand rows parsed from a Lenta request
// workbook and returns the number of inserted rows.
func (s *Storage) InsertStaffingRequests(ctx context.Context, requests []StaffingRequest) (int64, error) {
	const operation = "storage.InsertStaffingRequests"

	if len(requests) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, r := range requests {
		res, err := tx.NamedExecContext(ctx, `
			INSERT INTO analytics.lenta_requests (
				tk_id, resource_id, is_night, add_requirement, doer_count,
				requested_date, file_date, filename
			) VALUES (
				:tk_id, :resource_id, :is_night, :add_requirement, :doer_count,
				:requested_date, :file_date, :filename
			)`, r)
		if err != nil {
			return 0, fmt.Errorf("%s: insert: %w", operation, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: rows affected: %w", operation, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", operation, err)
	}
	return inserted, nil
}

// InsertFinRevenues appends manually reported revenue lines.
func (s *Storage) InsertFinRevenues(ctx context.Context, revenues []FinRevenue) (int64, error) {
	const operation = "storage.InsertFinRevenues"

	if len(revenues) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, r := range revenues {
		res, err := tx.NamedExecContext(ctx, `
			INSERT INTO analytics.fin_revenues (
				doer_id, date_, amount, article_id, created_by, project_id,
				region_id, speciality_id, notes, file_date, filename
			) VALUES (
				:doer_id, :date_, :amount, :article_id, :created_by, :project_id,
				:region_id, :speciality_id, :notes, :file_date, :filename
			)`, r)
		if err != nil {
			return 0, fmt.Errorf("%s: insert: %w", operation, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: rows affected: %w", operation, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", operation, err)
	}
	return inserted, nil
}
