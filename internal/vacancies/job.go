package vacancies

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fastzila-analytics/internal/storage"
)

const source = "hh_vacancies_parser"

// Job scrapes the tracked specialisations off hh.ru into vacancies_hh.
// The insert is append-only with whole-row deduplication, so reruns are safe
// and salary changes show up as new rows.
type Job struct {
	client          *Client
	store           *storage.Storage
	logger          *zap.Logger
	specialisations []string
}

func NewJob(client *Client, store *storage.Storage, logger *zap.Logger, specialisations []string) *Job {
	return &Job{
		client:          client,
		store:           store,
		logger:          logger,
		specialisations: specialisations,
	}
}

func (j *Job) Run(ctx context.Context) error {
	areas, err := j.client.Areas(ctx)
	if err != nil {
		return fmt.Errorf("load areas: %w", err)
	}
	j.logger.Info("Scraping vacancies",
		zap.Int("areas", len(areas)),
		zap.Strings("specialisations", j.specialisations))

	var collected []storage.Vacancy
	for _, specialisation := range j.specialisations {
		for _, areaID := range areas {
			vacancies, err := j.client.Vacancies(ctx, specialisation, areaID)
			if err != nil {
				return fmt.Errorf("specialisation %s, area %d: %w", specialisation, areaID, err)
			}
			collected = append(collected, vacancies...)
		}
	}

	inserted, err := j.store.InsertVacancies(ctx, dedupe(collected))
	if err != nil {
		return err
	}

	j.logger.Info("Vacancies stored", zap.Int64("rows", inserted))
	return j.store.LogEvent(ctx, storage.EventTypeEvent, source,
		fmt.Sprintf("%d strings commited to table vacancies_hh", inserted))
}

// dedupe drops postings repeated across region and specialisation searches.
func dedupe(vacancies []storage.Vacancy) []storage.Vacancy {
	type key struct {
		id        string
		region    int64
		published string
	}

	seen := make(map[key]bool, len(vacancies))
	out := vacancies[:0]
	for _, v := range vacancies {
		k := key{id: v.VacancyID, region: v.Region, published: v.PublishedAt.String()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
