package model

// PlanKind selects the trading-plan template.
type PlanKind string

const (
	PlanBullish PlanKind = "bullish"
	PlanBearish PlanKind = "bearish"
	PlanRange   PlanKind = "range"
)

// PlanLevel is a named price level referenced by a plan.
type PlanLevel struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PositionSize is the quantity that risks a fixed share of the account at the plan's stop.
type PositionSize struct {
	Balance    float64 `json:"balance"`
	RiskPct    float64 `json:"risk_pct"`
	RiskAmount float64 `json:"risk_amount"`
	Entry      float64 `json:"entry"`
	Stop       float64 `json:"stop"`
	Quantity   float64 `json:"quantity"`
	Notional   float64 `json:"notional"`
}

// TradingPlan is the template plan selected for a bias.
type TradingPlan struct {
	Kind               PlanKind      `json:"kind"`
	Title              string        `json:"title"`
	Levels             []PlanLevel   `json:"levels"`
	Lines              []string      `json:"lines"`
	Risk               []string      `json:"risk"`
	StopDistance       float64       `json:"stop_distance"`
	VolumeConfirmation float64       `json:"volume_confirmation"`
	Position           *PositionSize `json:"position,omitempty"`
}

// Level returns the price of the named level.
func (p *TradingPlan) Level(name string) (float64, bool) {
	for _, l := range p.Levels {
		if l.Name == name {
			return l.Price, true
		}
	}
	return 0, false
}
