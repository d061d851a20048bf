package contracts

import (
	"fmt"
)

// RiskLevel is the user's risk appetite.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DividendPriority is how much the user cares about dividend income.
type DividendPriority string

const (
	DividendNone DividendPriority = "none"
	DividendSome DividendPriority = "some"
	DividendHigh DividendPriority = "high"
)

// InvestmentType tags an instrument category.
type InvestmentType string

const (
	TypeStocks      InvestmentType = "stocks"
	TypeETF         InvestmentType = "etf"
	TypeMutualFunds InvestmentType = "mutual_funds"
	TypeBonds       InvestmentType = "bonds"
)

// EthicalTag is an ESG-related preference.
type EthicalTag string

const (
	EthicalESG        EthicalTag = "esg"
	EthicalGreen      EthicalTag = "green"
	EthicalSocial     EthicalTag = "social"
	EthicalGovernance EthicalTag = "governance"
)

// InvestmentProfile is the user input driving one recommendation request.
// Immutable once validated; owned by the caller for the request duration.
type InvestmentProfile struct {
	RiskLevel        RiskLevel        `json:"risk_level"`
	DesiredReturn    float64          `json:"desired_return"` // percent, 0-100
	DurationYears    int              `json:"duration_years"` // 1-30
	Sectors          []string         `json:"sectors"`
	Budget           float64          `json:"budget"` // >= 1000
	DividendPriority DividendPriority `json:"dividend_priority"`
	Ethical          []EthicalTag     `json:"ethical_considerations,omitempty"`
	InvestmentTypes  []InvestmentType `json:"investment_types,omitempty"`
}

// Normalize applies the single documented default: an empty
// investment_types set becomes {stocks}. Nothing else is coerced.
func (p *InvestmentProfile) Normalize() {
	if len(p.InvestmentTypes) == 0 {
		p.InvestmentTypes = []InvestmentType{TypeStocks}
	}
}

// Validate checks profile bounds. A failing profile is fatal for the
// request and is rejected before universe expansion begins.
func (p *InvestmentProfile) Validate() error {
	switch p.RiskLevel {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return fmt.Errorf("risk_level must be one of: low, medium, high (got %q)", p.RiskLevel)
	}

	if p.DesiredReturn < 0 || p.DesiredReturn > 100 {
		return fmt.Errorf("desired_return must be between 0 and 100 (got %.2f)", p.DesiredReturn)
	}

	if p.DurationYears < 1 || p.DurationYears > 30 {
		return fmt.Errorf("duration_years must be between 1 and 30 (got %d)", p.DurationYears)
	}

	if len(p.Sectors) == 0 {
		return fmt.Errorf("at least one sector is required")
	}

	if p.Budget < 1000 {
		return fmt.Errorf("budget must be at least 1000 (got %.2f)", p.Budget)
	}

	switch p.DividendPriority {
	case DividendNone, DividendSome, DividendHigh:
	default:
		return fmt.Errorf("dividend_priority must be one of: none, some, high (got %q)", p.DividendPriority)
	}

	for _, tag := range p.Ethical {
		switch tag {
		case EthicalESG, EthicalGreen, EthicalSocial, EthicalGovernance:
		default:
			return fmt.Errorf("unknown ethical consideration %q", tag)
		}
	}

	for _, it := range p.InvestmentTypes {
		switch it {
		case TypeStocks, TypeETF, TypeMutualFunds, TypeBonds:
		default:
			return fmt.Errorf("unknown investment type %q", it)
		}
	}

	return nil
}

// WantsType reports whether the profile asks for the given instrument type.
func (p *InvestmentProfile) WantsType(t InvestmentType) bool {
	for _, it := range p.InvestmentTypes {
		if it == t {
			return true
		}
	}
	return false
}
