package vacancies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		title string
		want  int64
	}{
		{"Водитель-курьер", GroupAutoCourier},
		{"Курьер-водитель (подработка)", GroupAutoCourier},
		{"Автокурьер", GroupAutoCourier},
		{"Водитель на доставку", GroupAutoCourier},

		{"Велокурьер", GroupBikeCourier},
		{"Курьер на велосипеде", GroupBikeCourier},
		{"Мотокурьер", GroupMotoCourier},
		{"Пеший курьер", GroupWalker},

		{"Сборщик заказов", GroupPicker},
		{"Комплектовщик заказов", GroupPicker},
		{"Сборщик (комплектовщик) заказов", GroupPicker},

		{"Водитель-экспедитор", GroupDriverForward},

		{"Курьер на личном автомобиле", GroupCourierOwnCar},
		{"Курьер на своем авто", GroupCourierOwnCar},
		{"Курьер с автомобилем", GroupCourierOwnCar},
		{"Курьер на авто компании", GroupCourierFirmCar},
		{"Курьер на служебном автомобиле", GroupCourierFirmCar},

		// Ambiguous and out-of-scope titles stay at zero.
		{"Курьер-сборщик", 0},
		{"Пеший сборщик заказов", 0},
		{"Водитель-курьер на грузовом автомобиле", 0},
		{"Менеджер по продажам", 0},
		{"Курьер", 0},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.title))
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, int64(GroupBikeCourier), Classify("ВЕЛОКУРЬЕР"))
}
