package ingest

import (
	"database/sql"
	"time"

	"fastzila-analytics/internal/storage"
)

// Resource codes of the staffing request rows.
var resourceCodes = map[string]int{
	"Курьер (кол-во)": 1,
	"Пикер (кол-во)":  2,
}

// RequestRecord is one (TK, resource, date) demand cell awaiting TK id
// resolution.
type RequestRecord struct {
	TK      string
	Request storage.StaffingRequest
}

// RequestStats counts rows whose resource type did not resolve.
type RequestStats struct {
	UnknownResource int
}

func parseNight(s string) bool {
	switch s {
	case "1", "true", "TRUE", "Да", "да":
		return true
	}
	return false
}

func nullFloat(s string) sql.NullFloat64 {
	if s == "" {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: parseFloat(s), Valid: true}
}

// ParseRequestSheet unpivots one staffing request sheet. The sheet carries
// one column per requested date between the resource type and the night
// flag; every (row, date column) pair becomes one demand record. The picker
// sheet arrives with an unnamed first column, which is treated as the TK.
func ParseRequestSheet(rows [][]string, filename string, fileDate time.Time) ([]RequestRecord, RequestStats) {
	var records []RequestRecord
	var stats RequestStats

	if len(rows) == 0 {
		return nil, stats
	}

	header := rows[0]
	nightCol, extraCol := -1, -1
	for i := range header {
		switch cell(header, i) {
		case "Ночь":
			nightCol = i
		case "Доп потребность":
			extraCol = i
		}
	}
	if nightCol < 0 || extraCol < 0 {
		return nil, stats
	}

	// Date columns sit between the resource type and the night flag.
	type dateCol struct {
		col  int
		date time.Time
	}
	var dateCols []dateCol
	for i := 2; i < nightCol; i++ {
		if d, ok := parseDate(cell(header, i)); ok {
			dateCols = append(dateCols, dateCol{col: i, date: d})
		}
	}

	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		resource, ok := resourceCodes[cell(row, 1)]
		if !ok {
			stats.UnknownResource++
		}

		tk := normalizeTK(cell(row, 0))
		night := parseNight(cell(row, nightCol))
		extra := nullFloat(cell(row, extraCol))

		for _, dc := range dateCols {
			records = append(records, RequestRecord{
				TK: tk,
				Request: storage.StaffingRequest{
					ResourceID:     resource,
					IsNight:        night,
					AddRequirement: extra,
					DoerCount:      nullFloat(cell(row, dc.col)),
					RequestedDate:  dc.date,
					FileDate:       fileDate,
					Filename:       filename,
				},
			})
		}
	}
	return records, stats
}
