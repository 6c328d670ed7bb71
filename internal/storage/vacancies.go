package storage

import (
	"context"
	"fmt"
)

// InsertVacancies appends job-board postings, skipping rows that already exist
// with identical attributes. Returns the number of new rows.
func (s *Storage) InsertVacancies(ctx context.Context, vacancies []Vacancy) (int64, error) {
	const operation = "storage.InsertVacancies"

	if len(vacancies) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, v := range vacancies {
		res, err := tx.NamedExecContext(ctx, `
			INSERT INTO analytics.vacancies_hh (
				vacancy_id, vacancy_name, region, speciality_id, employer_id,
				employer_name, salary_min, salary_max, gross, published_at,
				type_vacancy, requirements
			)
			SELECT :vacancy_id, :vacancy_name, :region, :speciality_id, :employer_id,
			       :employer_name, :salary_min, :salary_max, :gross, :published_at,
			       :type_vacancy, :requirements
			WHERE NOT EXISTS (
				SELECT 1 FROM analytics.vacancies_hh
				WHERE vacancy_id = :vacancy_id
				  AND vacancy_name = :vacancy_name
				  AND region = :region
				  AND speciality_id = :speciality_id
				  AND employer_id IS NOT DISTINCT FROM :employer_id
				  AND employer_name = :employer_name
				  AND salary_min IS NOT DISTINCT FROM :salary_min
				  AND salary_max IS NOT DISTINCT FROM :salary_max
				  AND gross = :gross
				  AND published_at = :published_at
				  AND type_vacancy = :type_vacancy
				  AND requirements = :requirements
			)`, v)
		if err != nil {
			return 0, fmt.Errorf("%s: insert vacancy %s: %w", operation, v.VacancyID, err)
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
