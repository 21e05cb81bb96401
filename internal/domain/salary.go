package domain

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type WageType string

const (
	WageMonthly WageType = "Monthly"
	WageYearly  WageType = "Yearly"
)

func (w WageType) Valid() bool {
	return w == WageMonthly || w == WageYearly
}

const (
	DefaultTotalWage Amount = 50000
	FixedTax         Amount = 200
)

var (
	basicRatio      = decimal.RequireFromString("0.50")
	hraRatio        = decimal.RequireFromString("0.50") // of basic
	allowancesRatio = decimal.RequireFromString("0.15")
	bonusRatio      = decimal.RequireFromString("0.10")
	pfRatio         = decimal.RequireFromString("0.12") // of basic
)

// Amount is a money value in whole currency units. It decodes fractional
// JSON numbers by rounding half away from zero.
type Amount int64

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(a), 10)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*a = 0
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", string(b), err)
	}
	*a = Amount(d.Round(0).IntPart())
	return nil
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}

type SalaryInfo struct {
	WageType   WageType `json:"wageType"`
	TotalWage  Amount   `json:"totalWage"`
	Basic      Amount   `json:"basic"`
	HRA        Amount   `json:"hra"`
	Allowances Amount   `json:"allowances"`
	Bonus      Amount   `json:"bonus"`
	PF         Amount   `json:"pf"`
	Tax        Amount   `json:"tax"`
	ExtraWages Amount   `json:"extraWages"`
	Deductions Amount   `json:"deductions"`
}

func ratioOf(v Amount, ratio decimal.Decimal) Amount {
	return Amount(v.Decimal().Mul(ratio).Round(0).IntPart())
}

// DeriveSalary computes every fixed-ratio component from total. HRA is half
// of basic. Manual adjustments start at zero.
func DeriveSalary(total Amount, wageType WageType) SalaryInfo {
	if wageType == "" {
		wageType = WageMonthly
	}
	basic := ratioOf(total, basicRatio)
	return SalaryInfo{
		WageType:   wageType,
		TotalWage:  total,
		Basic:      basic,
		HRA:        ratioOf(basic, hraRatio),
		Allowances: ratioOf(total, allowancesRatio),
		Bonus:      ratioOf(total, bonusRatio),
		PF:         ratioOf(basic, pfRatio),
		Tax:        FixedTax,
	}
}

// WithTotal re-derives the components for a new total, keeping the manual
// adjustments.
func (s SalaryInfo) WithTotal(total Amount) SalaryInfo {
	next := DeriveSalary(total, s.WageType)
	next.ExtraWages = s.ExtraWages
	next.Deductions = s.Deductions
	return next
}

// NetPay is total + extra wages + bonus - deductions.
func (s SalaryInfo) NetPay() Amount {
	return s.TotalWage + s.ExtraWages + s.Bonus - s.Deductions
}
