package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Interest calculation methods supported by a scheme
const (
	MethodSimple   = "Simple"
	MethodMonthly  = "Monthly"
	MethodDaily    = "Daily"
	MethodCompound = "Compound"
	MethodReducing = "Reducing"
	MethodEmi      = "Emi"
)

// Scheme is the immutable product configuration attached to a loan at creation
type Scheme struct {
	ID                uuid.UUID       `json:"id"`
	SchemeCode        string          `json:"scheme_code"`
	SchemeName        string          `json:"scheme_name"`
	Roi               decimal.Decimal `json:"roi"`
	CalculationMethod string          `json:"calculation_method"`
	GraceDays         int             `json:"grace_days"`
	AdvanceMonth      int             `json:"advance_month"`
	MinCalcDays       int             `json:"min_calc_days"`
	IsActive          bool            `json:"is_active"`
	CreatedDate       time.Time       `json:"created_date"`
}
