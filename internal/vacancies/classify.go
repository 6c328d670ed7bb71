package vacancies

import "strings"

// Speciality groups vacancy titles are sorted into. Zero means the title is
// ambiguous or out of scope and is left for a manual decision.
const (
	GroupAutoCourier    = 1
	GroupWalker         = 2
	GroupPicker         = 3
	GroupBikeCourier    = 4
	GroupMotoCourier    = 7
	GroupDriverForward  = 9
	GroupCourierOwnCar  = 10
	GroupCourierFirmCar = 11
)

// Classify maps a vacancy title to a speciality group by keyword rules.
// Rules run in order and later matches override earlier ones, so the most
// specific wording wins.
func Classify(title string) int64 {
	name := strings.ToLower(title)
	has := func(sub string) bool { return strings.Contains(name, sub) }
	hasAny := func(subs ...string) bool {
		for _, sub := range subs {
			if has(sub) {
				return true
			}
		}
		return false
	}

	var id int64

	if hasAny("водитель-курьер", "курьер-водитель", "водитель - курьер",
		"водитель курьер", "водитель на доставку", "авто-курьер", "автокурьер") {
		id = GroupAutoCourier
	}

	if hasAny("велокурьер", "вело-курьер", "на велосипеде") {
		id = GroupBikeCourier
	}
	if has("мотокурьер") {
		id = GroupMotoCourier
	}
	if has("пеший") {
		id = GroupWalker
	}

	if hasAny("сборщик заказов", "сборщик-курьер", "комплектовщик заказов",
		"сборщик (комплектовщик) заказов") {
		id = GroupPicker
	}

	if has("водитель") && has("экспедитор") {
		id = GroupDriverForward
	}

	if has("курьер") && hasAny("личн", "собственн", "своем", "с автомобил") {
		id = GroupCourierOwnCar
	}
	if (has("курьер") && has("на авто") && has("компани")) ||
		has("курьер на служебном автомобиле") {
		id = GroupCourierFirmCar
	}

	// Mixed or out-of-scope roles stay unclassified.
	if has("курьер") && has("сборщик") {
		id = 0
	}
	if has("пеший") && has("сборщик") {
		id = 0
	}
	if has("водитель на автомобиль компании / личном автомобиле") {
		id = 0
	}
	if id == GroupAutoCourier && has("грузовом") {
		id = 0
	}

	return id
}
