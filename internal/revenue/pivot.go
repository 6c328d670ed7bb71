package revenue

import (
	"errors"
	"fmt"

	"fastzila-analytics/internal/storage"
)

// ErrDuplicateRate marks a tariff carrying two line items for the same metric
// field. Silently picking one would corrupt payment data, so the whole batch
// aborts before any write.
var ErrDuplicateRate = errors.New("duplicate tariff rate")

// BuildRateCards pivots every resolved tariff's line items into named rate
// slots. Tariffs with zero line items produce no card, which drops their
// shifts from the pass.
func BuildRateCards(resolved map[RateKey]storage.Tariff) (map[RateKey]RateCard, error) {
	cards := make(map[RateKey]RateCard, len(resolved))
	for key, tariff := range resolved {
		if len(tariff.Prices) == 0 {
			continue
		}
		card, err := pivotTariff(tariff)
		if err != nil {
			return nil, err
		}
		cards[key] = card
	}
	return cards, nil
}

func pivotTariff(t storage.Tariff) (RateCard, error) {
	card := RateCard{TariffID: t.ID}
	seen := make(map[int]bool, len(t.Prices))
	for _, p := range t.Prices {
		if seen[p.FieldID] {
			return RateCard{}, fmt.Errorf("%w: tariff %d, field %d", ErrDuplicateRate, t.ID, p.FieldID)
		}
		seen[p.FieldID] = true

		// Fields no payment formula reads are carried by the tariff for other
		// projects; they are checked for duplicates but not pivoted.
		if slot := card.Cost.slot(p.FieldID); slot != nil {
			*slot = p.Cost
			*card.Amount.slot(p.FieldID) = p.Amount
		}
	}
	return card, nil
}

// CourierRow is one courier shift joined to its effective rate card.
type CourierRow struct {
	Shift storage.CourierShift
	Card  RateCard
}

// BuildCourierRows joins each shift to its rate card through the TK region
// mapping and the transport-derived speciality. Shifts with an unmapped TK or
// no applicable tariff are skipped and retried on a later run.
func BuildCourierRows(shifts []storage.CourierShift, regions map[int64]int64, cards map[RateKey]RateCard) (rows []CourierRow, skipped int) {
	for _, s := range shifts {
		regionID, ok := regions[s.TKID]
		if !ok {
			skipped++
			continue
		}
		card, ok := cards[RateKey{
			Date:         Day(s.Date),
			RegionID:     regionID,
			SpecialityID: courierSpeciality(s.TransportID),
		}]
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, CourierRow{Shift: s, Card: card})
	}
	return rows, skipped
}

// PickerRow is one picker shift joined to its effective rate card.
type PickerRow struct {
	Shift storage.PickerShift
	Card  RateCard
}

// BuildPickerRows joins picker shifts to their rate cards. Pickers have no
// transport attribute; every shift resolves under the picker speciality.
func BuildPickerRows(shifts []storage.PickerShift, regions map[int64]int64, cards map[RateKey]RateCard) (rows []PickerRow, skipped int) {
	for _, s := range shifts {
		regionID, ok := regions[s.TKID]
		if !ok {
			skipped++
			continue
		}
		card, ok := cards[RateKey{
			Date:         Day(s.Date),
			RegionID:     regionID,
			SpecialityID: SpecialityPicker,
		}]
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, PickerRow{Shift: s, Card: card})
	}
	return rows, skipped
}
