package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when a report author's email has no users row.
var ErrUserNotFound = errors.New("user not found")

// TradeCenters returns the full lenta_tks dictionary.
func (s *Storage) TradeCenters(ctx context.Context) ([]TradeCenter, error) {
	const operation = "storage.TradeCenters"

	var tks []TradeCenter
	err := s.db.SelectContext(ctx, &tks,
		`SELECT id, tk_name, cities, region_id FROM analytics.lenta_tks`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return tks, nil
}

// TradeCenterRegions maps TK id to its fastzila region id. TKs whose region
// has not been assigned yet are omitted; their shifts wait for the mapping.
func (s *Storage) TradeCenterRegions(ctx context.Context) (map[int64]int64, error) {
	tks, err := s.TradeCenters(ctx)
	if err != nil {
		return nil, err
	}

	regions := make(map[int64]int64, len(tks))
	for _, tk := range tks {
		if tk.RegionID.Valid {
			regions[tk.ID] = tk.RegionID.Int64
		}
	}
	return regions, nil
}

// AddTradeCenters inserts TK names first seen in a report into the dictionary.
func (s *Storage) AddTradeCenters(ctx context.Context, names []string) error {
	const operation = "storage.AddTradeCenters"

	for _, name := range names {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO analytics.lenta_tks (tk_name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("%s: insert %q: %w", operation, name, err)
		}
	}
	return nil
}

func (s *Storage) Organisations(ctx context.Context) ([]Organisation, error) {
	const operation = "storage.Organisations"

	var orgs []Organisation
	err := s.db.SelectContext(ctx, &orgs,
		`SELECT id, organisation_name FROM analytics.lenta_organisations`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return orgs, nil
}

func (s *Storage) AddOrganisations(ctx context.Context, names []string) error {
	const operation = "storage.AddOrganisations"

	for _, name := range names {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO analytics.lenta_organisations (organisation_name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("%s: insert %q: %w", operation, name, err)
		}
	}
	return nil
}

// UserIDByEmail resolves a report author against fastzila.users.
func (s *Storage) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	const operation = "storage.UserIDByEmail"

	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT id FROM fastzila.users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", operation, err)
	}
	return id, nil
}

// ProjectsByName, RegionsByName and SpecialitiesByName load the master
// dictionaries the finance workbook refers to by human-readable name.

func (s *Storage) ProjectsByName(ctx context.Context) (map[string]int64, error) {
	return s.nameIndex(ctx, `SELECT id, name FROM fastzila.projects`)
}

func (s *Storage) RegionsByName(ctx context.Context) (map[string]int64, error) {
	return s.nameIndex(ctx, `SELECT id, name FROM fastzila.regions`)
}

func (s *Storage) SpecialitiesByName(ctx context.Context) (map[string]int64, error) {
	return s.nameIndex(ctx, `SELECT id, name FROM fastzila.specialities`)
}

func (s *Storage) nameIndex(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("storage.nameIndex: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("storage.nameIndex: scan: %w", err)
		}
		index[name] = id
	}
	return index, rows.Err()
}
