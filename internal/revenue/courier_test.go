package revenue

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastzila-analytics/internal/storage"
)

func courierShift(hours, orders float64) storage.CourierShift {
	return storage.CourierShift{
		ID:              1,
		ActiveHours:     hours,
		OrdersDelivered: orders,
	}
}

func TestMandatoryApplies(t *testing.T) {
	rates := Rates{Hour: 30, Order: 20, Mandatory: 500}

	tests := []struct {
		name   string
		hours  float64
		orders float64
		want   bool
	}{
		{"long shift, few orders, metered pay short", 12, 5, true},
		{"metered pay exceeds the minimum", 12, 9, false}, // 360+180 = 540 > 500
		{"hours at the threshold", 11, 5, false},
		{"orders at the threshold", 12, 11, false},
		{"zero orders", 12, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MandatoryApplies(tt.hours, tt.orders, rates))
		})
	}
}

func TestMandatoryApplies_StrictComparison(t *testing.T) {
	// 12*30 + 5*20 = 460; a minimum of exactly 460 must not trigger.
	rates := Rates{Hour: 30, Order: 20, Mandatory: 460}
	assert.False(t, MandatoryApplies(12, 5, rates))
}

func TestCalculateCourier_MeteredPay(t *testing.T) {
	rates := Rates{Hour: 30, Order: 20, Mandatory: 500}

	pay := CalculateCourier(courierShift(12, 9), rates)

	assert.Equal(t, 0.0, pay.Mandatory)
	assert.Equal(t, 360.0, pay.Hour)
	assert.Equal(t, 180.0, pay.Order)
	assert.Equal(t, 540.0, pay.Total)
}

func TestCalculateCourier_MandatorySupersedes(t *testing.T) {
	rates := Rates{Hour: 30, Order: 20, Mandatory: 500}

	pay := CalculateCourier(courierShift(12, 5), rates)

	assert.Equal(t, 500.0, pay.Mandatory)
	assert.Equal(t, 0.0, pay.Hour)
	assert.Equal(t, 0.0, pay.Order)
	assert.Equal(t, 500.0, pay.Total)
}

func TestCalculateCourier_SurchargesIndependentOfMandatory(t *testing.T) {
	rates := Rates{Hour: 30, Order: 20, Mandatory: 500, Over20Kg: 10, Over40Kg: 15, Mileage: 5}

	shift := courierShift(12, 5)
	shift.OrdersOver20Kg = 2
	shift.OrdersOver40Kg = 1
	shift.DailyDistance = 100 // excess over 8 km/order: 100 - 40 = 60

	pay := CalculateCourier(shift, rates)

	require.Equal(t, 500.0, pay.Mandatory)
	assert.Equal(t, 20.0, pay.Over20Kg)
	assert.Equal(t, 15.0, pay.Over40Kg)
	assert.Equal(t, 300.0, pay.Mileage)
	assert.Equal(t, 835.0, pay.Total)

	// The same surcharges apply when metered pay is in effect.
	shift.OrdersDelivered = 9
	pay = CalculateCourier(shift, rates)
	assert.Equal(t, 0.0, pay.Mandatory)
	assert.Equal(t, 20.0, pay.Over20Kg)
	assert.Equal(t, 15.0, pay.Over40Kg)
}

func TestCalculateCourier_NoMileageWithinAllowance(t *testing.T) {
	rates := Rates{Mileage: 5}

	shift := courierShift(8, 10)
	shift.DailyDistance = 80 // exactly 8 km per order

	assert.Equal(t, 0.0, CalculateCourier(shift, rates).Mileage)

	shift.DailyDistance = 50
	assert.Equal(t, 0.0, CalculateCourier(shift, rates).Mileage)
}

func TestCalculateCourier_MissingRatesYieldZeroTotal(t *testing.T) {
	shift := courierShift(12, 9)
	shift.DailyDistance = 100
	shift.OrdersOver20Kg = 3

	pay := CalculateCourier(shift, Rates{})

	assert.Equal(t, 0.0, pay.Total)
}

func TestCalculateCourier_Idempotent(t *testing.T) {
	rates := Rates{Hour: 30, Order: 20, Mandatory: 500, Mileage: 5}
	shift := courierShift(12, 5)
	shift.DailyDistance = 90

	first := CalculateCourier(shift, rates)
	second := CalculateCourier(shift, rates)

	assert.Equal(t, first, second)
}

func TestCourierPaymentFor_SidesAreIndependent(t *testing.T) {
	row := CourierRow{
		Shift: courierShift(10, 12),
		Card: RateCard{
			Cost:   Rates{Hour: 30, Order: 20},
			Amount: Rates{Hour: 50, Order: 35},
		},
	}

	payment := CourierPaymentFor(row)

	assert.Equal(t, int64(1), payment.RecordID)
	assert.Equal(t, 300.0, payment.HourDoer)
	assert.Equal(t, 240.0, payment.OrderDoer)
	assert.Equal(t, 540.0, payment.FullDoer)
	assert.Equal(t, 500.0, payment.HourClient)
	assert.Equal(t, 420.0, payment.OrderClient)
	assert.Equal(t, 920.0, payment.FullClient)
}

// A mandatory minimum can trigger on one side only when the sides carry
// different rate levels.
func TestCourierPaymentFor_MandatoryPerSide(t *testing.T) {
	row := CourierRow{
		Shift: courierShift(12, 5),
		Card: RateCard{
			Cost:   Rates{Hour: 30, Order: 20, Mandatory: 500}, // 460 < 500, triggers
			Amount: Rates{Hour: 50, Order: 35, Mandatory: 500}, // 775 > 500, metered
		},
	}

	payment := CourierPaymentFor(row)

	assert.Equal(t, 500.0, payment.MandatoryDoer)
	assert.Equal(t, 0.0, payment.HourDoer)
	assert.Equal(t, 0.0, payment.MandatoryClient)
	assert.Equal(t, 600.0, payment.HourClient)
}

func TestCourierSpeciality(t *testing.T) {
	transport := func(id int64) sql.NullInt64 {
		return sql.NullInt64{Int64: id, Valid: true}
	}

	assert.Equal(t, int64(SpecialityDriver), courierSpeciality(transport(0)))
	assert.Equal(t, int64(SpecialityWalker), courierSpeciality(transport(1)))
	assert.Equal(t, int64(SpecialityWalker), courierSpeciality(transport(4)))
	assert.Equal(t, int64(SpecialityCourier), courierSpeciality(transport(2)))
	assert.Equal(t, int64(SpecialityCourier), courierSpeciality(sql.NullInt64{}))
}
