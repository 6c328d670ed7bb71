package ingest

import (
	"database/sql"
	"fmt"
	"time"

	"fastzila-analytics/internal/storage"
)

// Division and transport codes as kept in the received-shift tables. Zero
// marks a value the export carried that we do not recognise; such rows are
// stored anyway and flagged in the event log.
var divisionCodes = map[string]int64{
	"Волга":           1,
	"Санкт-Петербург": 2,
	"Сибирь":          3,
	"Урал":            4,
	"Центр":           5,
	"Юг":              6,
	"ДМФ":             8,
	"ММФ":             9,
}

const divisionMissing = 7

var transportCodes = map[string]int64{
	"Велосипед": 1,
	"Авто":      2,
	"Мото":      3,
	"Пеший":     4,
}

func divisionID(name string) int64 {
	if name == "" {
		return divisionMissing
	}
	return divisionCodes[name]
}

// CourierRecord is one parsed courier row still holding the dictionary names
// the export uses. IDs are resolved after the dictionaries are topped up.
type CourierRecord struct {
	Shift        storage.CourierShift
	TK           string
	Organisation string
}

// PickerRecord is the picker counterpart of CourierRecord.
type PickerRecord struct {
	Shift        storage.PickerShift
	TK           string
	Organisation string
}

// ReportStats counts rows whose division or transport cell did not resolve.
type ReportStats struct {
	UnknownDivision  int
	UnknownTransport int
}

// backfillActivation fills missing on/off timestamps. A shift with neither
// timestamp is assumed to start at 06:00; a single missing end is derived
// from the other end and the active hours.
func backfillActivation(day time.Time, hours float64, first, last sql.NullTime) (sql.NullTime, sql.NullTime) {
	delta := time.Duration(hours * float64(time.Hour))
	if !first.Valid && !last.Valid {
		first = sql.NullTime{Time: day.Add(6 * time.Hour), Valid: true}
	}
	if !first.Valid && last.Valid {
		first = sql.NullTime{Time: last.Time.Add(-delta), Valid: true}
	}
	if !last.Valid {
		last = sql.NullTime{Time: first.Time.Add(delta), Valid: true}
	}
	return first, last
}

func emptyRow(row []string) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

// ParseCourierSheet turns one courier activity sheet into records ready for
// dictionary resolution. The sheet must carry the courier header row.
func ParseCourierSheet(rows [][]string, filename string, fileDate time.Time) ([]CourierRecord, ReportStats, error) {
	var records []CourierRecord
	var stats ReportStats

	for n, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		day, ok := parseDate(cell(row, 5))
		if !ok {
			return nil, stats, fmt.Errorf("row %d: unreadable date %q", n+2, cell(row, 5))
		}

		transport, ok := transportCodes[cell(row, 6)]
		if !ok {
			stats.UnknownTransport++
		}

		division := divisionID(cell(row, 3))
		if division == 0 {
			stats.UnknownDivision++
		}

		first, last := backfillActivation(day, parseFloat(cell(row, 10)),
			nullDateTime(cell(row, 13)), nullDateTime(cell(row, 14)))

		records = append(records, CourierRecord{
			TK:           normalizeTK(cell(row, 2)),
			Organisation: cell(row, 9),
			Shift: storage.CourierShift{
				CourierID:        parseInt(cell(row, 0)),
				EmployeeID:       employeeID(cell(row, 1)),
				DivisionID:       division,
				Date:             day,
				TransportID:      sql.NullInt64{Int64: transport, Valid: true},
				CourierName:      cell(row, 7),
				ActiveHours:      parseFloat(cell(row, 10)),
				FirstActivation:  first,
				LastDeactivation: last,
				OrdersDelivered:  parseFloat(cell(row, 18)),
				DailyDistance:    parseFloat(cell(row, 20)),
				OrdersOver20Kg:   parseFloat(cell(row, 21)),
				Orders20To40Kg:   parseFloat(cell(row, 22)),
				OrdersOver40Kg:   parseFloat(cell(row, 23)),
				SLADelivery:      parseFloat(cell(row, 25)),
				Filename:         filename,
				FileDate:         fileDate,
			},
		})
	}
	return records, stats, nil
}

// ParsePickerSheet turns one picker activity sheet into records ready for
// dictionary resolution.
func ParsePickerSheet(rows [][]string, filename string, fileDate time.Time) ([]PickerRecord, ReportStats, error) {
	var records []PickerRecord
	var stats ReportStats

	for n, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		day, ok := parseDate(cell(row, 5))
		if !ok {
			return nil, stats, fmt.Errorf("row %d: unreadable date %q", n+2, cell(row, 5))
		}

		division := divisionID(cell(row, 3))
		if division == 0 {
			stats.UnknownDivision++
		}

		first, last := backfillActivation(day, parseFloat(cell(row, 9)),
			nullDateTime(cell(row, 12)), nullDateTime(cell(row, 13)))

		records = append(records, PickerRecord{
			TK:           normalizeTK(cell(row, 2)),
			Organisation: cell(row, 8),
			Shift: storage.PickerShift{
				PickerID:         parseInt(cell(row, 0)),
				EmployeeID:       employeeID(cell(row, 1)),
				DivisionID:       division,
				Date:             day,
				PickerName:       cell(row, 6),
				ActiveHours:      parseFloat(cell(row, 9)),
				FirstActivation:  first,
				LastDeactivation: last,
				OrdersPicked:     parseFloat(cell(row, 17)),
				OrderedUnits:     parseFloat(cell(row, 18)),
				PickedUnits:      parseFloat(cell(row, 19)),
				OrderedSKU:       parseFloat(cell(row, 20)),
				PickedSKU:        parseFloat(cell(row, 21)),
				ChangedSKU:       parseFloat(cell(row, 22)),
				PickFullness:     parseFloat(cell(row, 23)),
				SLAReaction:      parseFloat(cell(row, 26)),
				SLAPick:          parseFloat(cell(row, 27)),
				Filename:         filename,
				FileDate:         fileDate,
			},
		})
	}
	return records, stats, nil
}
