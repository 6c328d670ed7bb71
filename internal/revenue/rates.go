package revenue

import (
	"database/sql"
	"math"
)

// Tariff metric field codes as kept in fastzila.tariff_prices.
const (
	FieldHour      = 1
	FieldOrder     = 2
	FieldMandatory = 58
	FieldOver20Kg  = 59
	FieldMileage   = 60
	FieldOver40Kg  = 82
	FieldNightHour = 86
	FieldSKU       = 92
)

// Speciality codes the tariffs are keyed by.
const (
	SpecialityDriver  = 0 // courier on a car
	SpecialityCourier = 1
	SpecialityWalker  = 2 // bike or foot courier
	SpecialityPicker  = 3
)

// Rates is one side's rate sheet with a named slot per metric field.
// A slot left at zero means the tariff carries no line item for that metric,
// so the component it prices contributes nothing.
type Rates struct {
	Hour      float64
	Order     float64
	Mandatory float64
	Over20Kg  float64
	Over40Kg  float64
	Mileage   float64
	NightHour float64
	SKU       float64
}

func (r *Rates) slot(fieldID int) *float64 {
	switch fieldID {
	case FieldHour:
		return &r.Hour
	case FieldOrder:
		return &r.Order
	case FieldMandatory:
		return &r.Mandatory
	case FieldOver20Kg:
		return &r.Over20Kg
	case FieldOver40Kg:
		return &r.Over40Kg
	case FieldMileage:
		return &r.Mileage
	case FieldNightHour:
		return &r.NightHour
	case FieldSKU:
		return &r.SKU
	}
	return nil
}

// RateCard pairs the doer-side (cost) and client-side (amount) rate sheets of
// one resolved tariff.
type RateCard struct {
	TariffID int64
	Cost     Rates
	Amount   Rates
}

// courierSpeciality derives the tariff speciality from the raw transport code
// of a courier shift.
func courierSpeciality(transport sql.NullInt64) int64 {
	if transport.Valid {
		switch transport.Int64 {
		case 0:
			return SpecialityDriver
		case 1, 4:
			return SpecialityWalker
		}
	}
	return SpecialityCourier
}

// finite coerces NaN and infinities to zero so one broken intermediate never
// poisons a payment total.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
