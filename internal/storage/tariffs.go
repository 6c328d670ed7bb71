package storage

import (
	"context"
	"fmt"

	"github.com/lib/pq"
)

// TariffsForProject loads every tariff version that can still price work for
// the project: active ones and superseded ones, whose effective end the
// resolver derives from the state-change date. Line items come attached.
func (s *Storage) TariffsForProject(ctx context.Context, projectID int64) ([]Tariff, error) {
	const operation = "storage.TariffsForProject"

	var tariffs []Tariff
	err := s.db.SelectContext(ctx, &tariffs, `
		SELECT id, project_id, region_id, speciality_id, state_id, created, state_date, date_start, date_stop
		FROM fastzila.tariffs
		WHERE project_id = $1 AND state_id IN ($2, $3)`,
		projectID, TariffStateActive, TariffStateSuperseded)
	if err != nil {
		return nil, fmt.Errorf("%s: select tariffs: %w", operation, err)
	}
	if len(tariffs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(tariffs))
	for _, t := range tariffs {
		ids = append(ids, t.ID)
	}

	var prices []TariffPrice
	err = s.db.SelectContext(ctx, &prices, `
		SELECT tariff_id, field_id, cost, amount
		FROM fastzila.tariff_prices
		WHERE tariff_id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%s: select tariff prices: %w", operation, err)
	}

	byTariff := make(map[int64][]TariffPrice, len(tariffs))
	for _, p := range prices {
		byTariff[p.TariffID] = append(byTariff[p.TariffID], p)
	}
	for i := range tariffs {
		tariffs[i].Prices = byTariff[tariffs[i].ID]
	}

	return tariffs, nil
}
