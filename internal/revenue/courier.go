package revenue

import (
	"fastzila-analytics/internal/storage"
)

// Thresholds of the guaranteed daily minimum and the free mileage allowance.
const (
	mandatoryMinHours  = 11.0
	mandatoryMaxOrders = 11.0
	kmPerOrder         = 8.0
)

// CourierPay is one side's priced components for a courier shift.
type CourierPay struct {
	Mandatory float64
	Hour      float64
	Order     float64
	Over20Kg  float64
	Over40Kg  float64
	Mileage   float64
	Total     float64
}

// MandatoryApplies reports whether the guaranteed daily minimum supersedes
// usage-based pay: a long shift with few orders whose metered hour and order
// pay together fall short of the minimum. Weight and mileage surcharges do not
// enter the comparison.
func MandatoryApplies(hours, orders float64, r Rates) bool {
	return hours > mandatoryMinHours &&
		orders < mandatoryMaxOrders &&
		r.Mandatory > hours*r.Hour+orders*r.Order
}

// CalculateCourier prices one courier shift against one side's rates. When the
// mandatory minimum applies it replaces hour and order pay entirely; weight
// and mileage surcharges are added in either case.
func CalculateCourier(s storage.CourierShift, r Rates) CourierPay {
	var p CourierPay

	if MandatoryApplies(s.ActiveHours, s.OrdersDelivered, r) {
		p.Mandatory = r.Mandatory
	} else {
		p.Hour = s.ActiveHours * r.Hour
		p.Order = s.OrdersDelivered * r.Order
	}

	p.Over20Kg = s.OrdersOver20Kg * r.Over20Kg
	p.Over40Kg = s.OrdersOver40Kg * r.Over40Kg

	if excess := s.DailyDistance - kmPerOrder*s.OrdersDelivered; excess > 0 {
		p.Mileage = excess * r.Mileage
	}

	p.Total = finite(p.Mandatory) + finite(p.Hour) + finite(p.Order) +
		finite(p.Over20Kg) + finite(p.Over40Kg) + finite(p.Mileage)
	return p
}

// CourierPaymentFor prices both sides of one joined row and flattens them onto
// the shift's payment columns.
func CourierPaymentFor(row CourierRow) storage.CourierPayment {
	doer := CalculateCourier(row.Shift, row.Card.Cost)
	client := CalculateCourier(row.Shift, row.Card.Amount)

	return storage.CourierPayment{
		RecordID:        row.Shift.ID,
		MandatoryClient: client.Mandatory,
		MandatoryDoer:   doer.Mandatory,
		HourClient:      client.Hour,
		HourDoer:        doer.Hour,
		OrderClient:     client.Order,
		OrderDoer:       doer.Order,
		Over20KgClient:  client.Over20Kg,
		Over20KgDoer:    doer.Over20Kg,
		Over40KgClient:  client.Over40Kg,
		Over40KgDoer:    doer.Over40Kg,
		MileageClient:   client.Mileage,
		MileageDoer:     doer.Mileage,
		FullClient:      client.Total,
		FullDoer:        doer.Total,
	}
}
