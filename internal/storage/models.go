package storage

import (
	"database/sql"
	"time"
)

// Tariff lifecycle states as kept in fastzila.tariffs.
const (
	TariffStateActive     = 3
	TariffStateSuperseded = 4
)

// Tariff is one version of a rate sheet for a (project, region, speciality).
// Prices are loaded separately and attached by TariffsForProject.
type Tariff struct {
	ID           int64        `db:"id"`
	ProjectID    int64        `db:"project_id"`
	RegionID     int64        `db:"region_id"`
	SpecialityID int64        `db:"speciality_id"`
	StateID      int          `db:"state_id"`
	Created      time.Time    `db:"created"`
	StateDate    sql.NullTime `db:"state_date"`
	DateStart    time.Time    `db:"date_start"`
	DateStop     sql.NullTime `db:"date_stop"`

	Prices []TariffPrice `db:"-"`
}

// TariffPrice is one line item: cost is paid to the doer, amount is charged to
// the client, for the metric identified by FieldID.
type TariffPrice struct {
	TariffID int64   `db:"tariff_id"`
	FieldID  int     `db:"field_id"`
	Cost     float64 `db:"cost"`
	Amount   float64 `db:"amount"`
}

// CourierShift is one courier's one-day performance snapshot received from
// the Lenta report. Payment columns stay NULL until the revenue job fills them.
type CourierShift struct {
	ID               int64         `db:"id"`
	CourierID        int64         `db:"courier_id"`
	EmployeeID       int64         `db:"employee_id"`
	TKID             int64         `db:"tk_id"`
	DivisionID       int64         `db:"division_id"`
	Date             time.Time     `db:"date_"`
	TransportID      sql.NullInt64 `db:"transport_id"`
	CourierName      string        `db:"courier_name"`
	OrganisationID   int64         `db:"organisation_id"`
	ActiveHours      float64       `db:"active_time_hours"`
	FirstActivation  sql.NullTime  `db:"first_activation"`
	LastDeactivation sql.NullTime  `db:"last_deactivation"`
	OrdersDelivered  float64       `db:"orders_delivered"`
	DailyDistance    float64       `db:"daily_distance"`
	OrdersOver20Kg   float64       `db:"orders_over_twenty_kg"`
	Orders20To40Kg   float64       `db:"orders_twenty_forty_kg"`
	OrdersOver40Kg   float64       `db:"orders_over_forty_kg"`
	SLADelivery      float64       `db:"sla_delivery"`
	Filename         string        `db:"filename"`
	FileDate         time.Time     `db:"file_date"`
}

// CourierPayment carries every computed payment column for one courier shift.
type CourierPayment struct {
	RecordID        int64   `db:"id"`
	MandatoryClient float64 `db:"mandatory_client"`
	MandatoryDoer   float64 `db:"mandatory_doer"`
	HourClient      float64 `db:"hour_client"`
	HourDoer        float64 `db:"hour_doer"`
	OrderClient     float64 `db:"order_client"`
	OrderDoer       float64 `db:"order_doer"`
	Over20KgClient  float64 `db:"orders_over_twenty_kg_client"`
	Over20KgDoer    float64 `db:"orders_over_twenty_kg_doer"`
	Over40KgClient  float64 `db:"orders_over_forty_kg_client"`
	Over40KgDoer    float64 `db:"orders_over_forty_kg_doer"`
	MileageClient   float64 `db:"mileage_client"`
	MileageDoer     float64 `db:"mileage_doer"`
	FullClient      float64 `db:"full_payment_client"`
	FullDoer        float64 `db:"full_payment_doer"`
}

// PickerShift is one picker's one-day performance snapshot.
type PickerShift struct {
	ID               int64        `db:"id"`
	PickerID         int64        `db:"picker_id"`
	EmployeeID       int64        `db:"employee_id"`
	TKID             int64        `db:"tk_id"`
	DivisionID       int64        `db:"division_id"`
	Date             time.Time    `db:"date_"`
	PickerName       string       `db:"picker_name"`
	OrganisationID   int64        `db:"organisation_id"`
	ActiveHours      float64      `db:"active_time_hours"`
	FirstActivation  sql.NullTime `db:"first_activation"`
	LastDeactivation sql.NullTime `db:"last_deactivation"`
	OrdersPicked     float64      `db:"orders_picked"`
	OrderedUnits     float64      `db:"ordered_units"`
	PickedUnits      float64      `db:"picked_units"`
	OrderedSKU       float64      `db:"ordered_sku"`
	PickedSKU        float64      `db:"picked_sku"`
	ChangedSKU       float64      `db:"changed_sku"`
	PickFullness     float64      `db:"pick_fullness"`
	SLAReaction      float64      `db:"sla_reaction"`
	SLAPick          float64      `db:"sla_pick"`
	Filename         string       `db:"filename"`
	FileDate         time.Time    `db:"file_date"`
}

// PickerPayment carries every computed payment column for one picker shift.
type PickerPayment struct {
	RecordID        int64   `db:"id"`
	HourDayClient   float64 `db:"hour_day_client"`
	HourDayDoer     float64 `db:"hour_day_doer"`
	HourNightClient float64 `db:"hour_night_client"`
	HourNightDoer   float64 `db:"hour_night_doer"`
	PickedSKUClient float64 `db:"picked_sku_client"`
	PickedSKUDoer   float64 `db:"picked_sku_doer"`
	FullClient      float64 `db:"full_payment_client"`
	FullDoer        float64 `db:"full_payment_doer"`
}

// TradeCenter is one Lenta TK (store) from the lenta_tks dictionary.
// RegionID is filled by hand after the TK first appears in a report.
type TradeCenter struct {
	ID       int64          `db:"id"`
	Name     string         `db:"tk_name"`
	Cities   sql.NullString `db:"cities"`
	RegionID sql.NullInt64  `db:"region_id"`
}

type Organisation struct {
	ID   int64  `db:"id"`
	Name string `db:"organisation_name"`
}

// StaffingRequest is one (TK, resource, date) demand row from a Lenta request
// workbook.
type StaffingRequest struct {
	TKID           int64           `db:"tk_id"`
	ResourceID     int             `db:"resource_id"`
	IsNight        bool            `db:"is_night"`
	AddRequirement sql.NullFloat64 `db:"add_requirement"`
	DoerCount      sql.NullFloat64 `db:"doer_count"`
	RequestedDate  time.Time       `db:"requested_date"`
	FileDate       time.Time       `db:"file_date"`
	Filename       string          `db:"filename"`
}

// FinRevenue is one manually reported revenue line from the finance workbook.
type FinRevenue struct {
	DoerID       int64     `db:"doer_id"`
	Date         time.Time `db:"date_"`
	Amount       float64   `db:"amount"`
	ArticleID    int64     `db:"article_id"`
	CreatedBy    int64     `db:"created_by"`
	ProjectID    int64     `db:"project_id"`
	RegionID     int64     `db:"region_id"`
	SpecialityID int64     `db:"speciality_id"`
	Notes        string    `db:"notes"`
	FileDate     time.Time `db:"file_date"`
	Filename     string    `db:"filename"`
}

// Vacancy is one job-board posting.
type Vacancy struct {
	VacancyID    string          `db:"vacancy_id"`
	Name         string          `db:"vacancy_name"`
	Region       int64           `db:"region"`
	SpecialityID int64           `db:"speciality_id"`
	EmployerID   sql.NullString  `db:"employer_id"`
	EmployerName string          `db:"employer_name"`
	SalaryMin    sql.NullFloat64 `db:"salary_min"`
	SalaryMax    sql.NullFloat64 `db:"salary_max"`
	Gross        bool            `db:"gross"`
	PublishedAt  time.Time       `db:"published_at"`
	TypeVacancy  string          `db:"type_vacancy"`
	Requirements string          `db:"requirements"`
}
