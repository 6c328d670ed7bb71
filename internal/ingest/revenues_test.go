package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRevenueSheet(t *testing.T) {
	rows := [][]string{
		revenueHeader,
		{"305", "2024-03-01", "150000,50", "4", "Лента", "Москва", "Курьер", "аванс"},
		{"", "2024-03-02", "80000", "4", "Лента", "Казань", "Сборщик", ""},
	}

	fileDate := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	records, err := ParseRevenueSheet(rows, "revenue.xlsx", fileDate)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(305), first.Revenue.DoerID)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), first.Revenue.Date)
	assert.Equal(t, 150000.50, first.Revenue.Amount)
	assert.Equal(t, int64(4), first.Revenue.ArticleID)
	assert.Equal(t, "Лента", first.Project)
	assert.Equal(t, "Москва", first.Region)
	assert.Equal(t, "Курьер", first.Speciality)
	assert.Equal(t, "аванс", first.Revenue.Notes)
	assert.Equal(t, fileDate, first.Revenue.FileDate)

	// Missing ID and note are tolerated.
	second := records[1]
	assert.Zero(t, second.Revenue.DoerID)
	assert.Empty(t, second.Revenue.Notes)
}

func TestParseRevenueSheet_EmptyMandatoryColumnFails(t *testing.T) {
	rows := [][]string{
		revenueHeader,
		{"305", "2024-03-01", "", "4", "Лента", "Москва", "Курьер", ""},
	}

	_, err := ParseRevenueSheet(rows, "revenue.xlsx", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Сумма Выручки")
}

func TestParseRevenueSheet_BadDateFails(t *testing.T) {
	rows := [][]string{
		revenueHeader,
		{"305", "первое марта", "100", "4", "Лента", "Москва", "Курьер", ""},
	}

	_, err := ParseRevenueSheet(rows, "revenue.xlsx", time.Now())
	assert.Error(t, err)
}
