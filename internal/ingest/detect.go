package ingest

// Workbook kinds recognised in the mailbox. Anything else is left untouched
// so an operator can inspect it.
type Kind int

const (
	KindUnknown Kind = iota
	KindActivityReport
	KindStaffingRequest
	KindFinanceRevenue
)

func (k Kind) String() string {
	switch k {
	case KindActivityReport:
		return "activity report"
	case KindStaffingRequest:
		return "staffing request"
	case KindFinanceRevenue:
		return "finance revenue"
	}
	return "unknown"
}

// Header rows the Lenta exports are identified by. The column sets are fixed
// by the reporting side; a changed export layout is caught here instead of
// producing half-parsed rows.
var courierHeader = []string{
	"КПП Курьера", "employee_id", "ТК", "Дивизион", "Город", "Дата", "Транспорт",
	"Имя Курьера", "Фамилия", "Организация", "Активное время, часов",
	"Кол-во включений", "Кол-во выключений", "Первое включение",
	"Последнее выключение", "Плановое начало смены", "Плановый конец смены",
	"Время последнего заказа", "Заказов доставлено", "Утилизовано",
	"Пробег за день, км", "Заказов больше 20 кг", "Заказов 20-40 кг",
	"Заказов больше 40 кг", "Заказов в час", "SLA, доставка",
}

var pickerHeader = []string{
	"КПП Комплектовщика", "employee_id", "ТК", "Дивизион", "Город", "Дата",
	"Имя комплектовщика", "Фамилия", "Организация", "Активное время, часов",
	"Кол-во включений", "Кол-во выключений", "Первое включение",
	"Последнее выключение", "Плановое начало смены", "Плановый конец смены",
	"Время последнего заказа", "Заказов собрано", "Заказано штук",
	"Собрано штук", "Заказано SKU", "Собрано SKU", "Заменено SKU",
	"Полнота сборки", "Утилизовано", "Заказов в час", "SLA, реакция",
	"SLA, сборка",
}

var revenueHeader = []string{
	"ID", "Дата", "Сумма Выручки", "Статья", "Проект", "Регион",
	"Специальность", "Заметка",
}

// headerMatches reports whether the sheet's first row starts with the wanted
// columns. Trailing service columns after the known set are tolerated.
func headerMatches(rows [][]string, want []string) bool {
	if len(rows) == 0 || len(rows[0]) < len(want) {
		return false
	}
	for i, col := range want {
		if cell(rows[0], i) != col {
			return false
		}
	}
	return true
}

func isRequestHeader(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}
	header := rows[0]
	if cell(header, 0) != "ТК" || cell(header, 1) != "Тип ресурса" {
		return false
	}
	hasNight, hasExtra := false, false
	for i := range header {
		switch cell(header, i) {
		case "Ночь":
			hasNight = true
		case "Доп потребность":
			hasExtra = true
		}
	}
	return hasNight && hasExtra
}

// DetectSheets classifies a workbook by the header of any of its sheets.
// The activity reports carry couriers and pickers as two sheets in either
// order, so both headers map to the same kind.
func DetectSheets(sheets map[string][][]string) Kind {
	for _, rows := range sheets {
		switch {
		case headerMatches(rows, courierHeader) || headerMatches(rows, pickerHeader):
			return KindActivityReport
		case headerMatches(rows, revenueHeader):
			return KindFinanceRevenue
		case isRequestHeader(rows):
			return KindStaffingRequest
		}
	}
	return KindUnknown
}
