package ingest

import (
	"fmt"
	"time"

	"fastzila-analytics/internal/storage"
)

// RevenueRecord is one finance revenue line still holding the dictionary
// names the finance team writes. Project, region and speciality resolve
// against the master dictionaries; the author resolves from the sender.
type RevenueRecord struct {
	Project    string
	Region     string
	Speciality string
	Revenue    storage.FinRevenue
}

// ParseRevenueSheet parses the finance revenue workbook. Unlike the activity
// reports this one is typed by hand, so mandatory columns are verified and
// the whole file is rejected on the first gap. ID and the note may be empty.
func ParseRevenueSheet(rows [][]string, filename string, fileDate time.Time) ([]RevenueRecord, error) {
	var records []RevenueRecord

	for n, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		for i, name := range revenueHeader {
			if i == 0 || name == "Заметка" {
				continue
			}
			if cell(row, i) == "" {
				return nil, fmt.Errorf("row %d: column %q has empty values", n+2, name)
			}
		}

		date, ok := parseDate(cell(row, 1))
		if !ok {
			return nil, fmt.Errorf("row %d: unreadable date %q", n+2, cell(row, 1))
		}

		records = append(records, RevenueRecord{
			Project:    cell(row, 4),
			Region:     cell(row, 5),
			Speciality: cell(row, 6),
			Revenue: storage.FinRevenue{
				DoerID:    parseInt(cell(row, 0)),
				Date:      date,
				Amount:    parseFloat(cell(row, 2)),
				ArticleID: parseInt(cell(row, 3)),
				Notes:     cell(row, 7),
				FileDate:  fileDate,
				Filename:  filename,
			},
		})
	}
	return records, nil
}
