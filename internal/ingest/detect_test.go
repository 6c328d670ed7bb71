package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSheets(t *testing.T) {
	tests := []struct {
		name   string
		sheets map[string][][]string
		want   Kind
	}{
		{
			name:   "courier report",
			sheets: map[string][][]string{"Лист1": {courierHeader}},
			want:   KindActivityReport,
		},
		{
			name:   "picker-first report",
			sheets: map[string][][]string{"Лист1": {pickerHeader}, "Лист2": {courierHeader}},
			want:   KindActivityReport,
		},
		{
			name:   "finance revenue",
			sheets: map[string][][]string{"Sheet1": {revenueHeader}},
			want:   KindFinanceRevenue,
		},
		{
			name: "staffing request",
			sheets: map[string][][]string{
				"Лист1": {{"ТК", "Тип ресурса", "2024-03-05", "Ночь", "Доп потребность"}},
			},
			want: KindStaffingRequest,
		},
		{
			name:   "unrelated workbook",
			sheets: map[string][][]string{"Sheet1": {{"a", "b", "c"}}},
			want:   KindUnknown,
		},
		{
			name:   "empty workbook",
			sheets: map[string][][]string{"Sheet1": {}},
			want:   KindUnknown,
		},
		{
			name: "request without night column",
			sheets: map[string][][]string{
				"Лист1": {{"ТК", "Тип ресурса", "Доп потребность"}},
			},
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSheets(tt.sheets))
		})
	}
}

func TestHeaderMatchesToleratesTrailingColumns(t *testing.T) {
	extended := append(append([]string{}, revenueHeader...), "Служебная")
	assert.True(t, headerMatches([][]string{extended}, revenueHeader))
}
