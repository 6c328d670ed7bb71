package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestSheet(t *testing.T) {
	rows := [][]string{
		{"ТК", "Тип ресурса", "2024-03-05", "2024-03-06", "Ночь", "Доп потребность"},
		{"123", "Курьер (кол-во)", "4", "", "1", "2"},
		{"ТК55", "Пикер (кол-во)", "3", "5", "0", ""},
	}

	fileDate := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	records, stats := ParseRequestSheet(rows, "requests.xlsx", fileDate)
	require.Len(t, records, 4, "one record per row per date column")
	assert.Zero(t, stats.UnknownResource)

	first := records[0]
	assert.Equal(t, "ТК123", first.TK)
	assert.Equal(t, 1, first.Request.ResourceID)
	assert.True(t, first.Request.IsNight)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), first.Request.RequestedDate)
	require.True(t, first.Request.DoerCount.Valid)
	assert.Equal(t, 4.0, first.Request.DoerCount.Float64)
	require.True(t, first.Request.AddRequirement.Valid)
	assert.Equal(t, 2.0, first.Request.AddRequirement.Float64)
	assert.Equal(t, fileDate, first.Request.FileDate)

	// Empty demand cells become NULL, not zero.
	second := records[1]
	assert.Equal(t, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), second.Request.RequestedDate)
	assert.False(t, second.Request.DoerCount.Valid)

	third := records[2]
	assert.Equal(t, "ТК55", third.TK)
	assert.Equal(t, 2, third.Request.ResourceID)
	assert.False(t, third.Request.IsNight)
	assert.False(t, third.Request.AddRequirement.Valid)
}

func TestParseRequestSheet_UnknownResourceCounted(t *testing.T) {
	rows := [][]string{
		{"ТК", "Тип ресурса", "2024-03-05", "Ночь", "Доп потребность"},
		{"123", "Дрон (кол-во)", "4", "0", ""},
	}

	records, stats := ParseRequestSheet(rows, "requests.xlsx", time.Now())
	require.Len(t, records, 1)
	assert.Equal(t, 1, stats.UnknownResource)
	assert.Zero(t, records[0].Request.ResourceID)
}

func TestParseRequestSheet_TKColumnWithoutHeader(t *testing.T) {
	// The second sheet of the request workbook ships the TK column unnamed.
	rows := [][]string{
		{"", "Тип ресурса", "2024-03-05", "Ночь", "Доп потребность"},
		{"ТК77", "Пикер (кол-во)", "2", "0", ""},
	}

	records, _ := ParseRequestSheet(rows, "requests.xlsx", time.Now())
	require.Len(t, records, 1)
	assert.Equal(t, "ТК77", records[0].TK)
}

func TestParseRequestSheet_NoDemandColumns(t *testing.T) {
	rows := [][]string{
		{"ТК", "Тип ресурса", "Ночь", "Доп потребность"},
		{"123", "Курьер (кол-во)", "0", ""},
	}

	records, _ := ParseRequestSheet(rows, "requests.xlsx", time.Now())
	assert.Empty(t, records)
}
