package model

import "fmt"

// Strength grades how much a signal counts toward the aggregate bias.
type Strength int

const (
	StrengthLow    Strength = 1
	StrengthMedium Strength = 2
	StrengthStrong Strength = 3
)

// Weight is the score contribution of a signal of this strength.
func (s Strength) Weight() int { return int(s) }

func (s Strength) String() string {
	switch s {
	case StrengthLow:
		return "Low"
	case StrengthMedium:
		return "Medium"
	case StrengthStrong:
		return "Strong"
	default:
		return fmt.Sprintf("Strength(%d)", int(s))
	}
}

// MarshalText encodes the strength by name.
func (s Strength) MarshalText() ([]byte, error) {
	switch s {
	case StrengthLow, StrengthMedium, StrengthStrong:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid strength %d", int(s))
}

// UnmarshalText decodes a strength name.
func (s *Strength) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Low":
		*s = StrengthLow
	case "Medium":
		*s = StrengthMedium
	case "Strong":
		*s = StrengthStrong
	default:
		return fmt.Errorf("invalid strength %q", string(b))
	}
	return nil
}

// Direction is the confluence bucket a signal lands in.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// Signal is one matched classifier rule.
type Signal struct {
	Indicator   string   `json:"indicator"`
	Condition   string   `json:"condition"`
	Implication string   `json:"implication"`
	Strength    Strength `json:"strength"`
	Timeframe   string   `json:"timeframe"`
}

// ConfluenceSet groups signals by direction, in classifier order.
type ConfluenceSet struct {
	Bullish []Signal `json:"bullish"`
	Bearish []Signal `json:"bearish"`
	Neutral []Signal `json:"neutral"`
}

// Add appends sig to the bucket for dir.
func (c *ConfluenceSet) Add(dir Direction, sig Signal) {
	switch dir {
	case Bullish:
		c.Bullish = append(c.Bullish, sig)
	case Bearish:
		c.Bearish = append(c.Bearish, sig)
	default:
		c.Neutral = append(c.Neutral, sig)
	}
}

// Merge appends every bucket of other after the receiver's own signals.
func (c *ConfluenceSet) Merge(other ConfluenceSet) {
	c.Bullish = append(c.Bullish, other.Bullish...)
	c.Bearish = append(c.Bearish, other.Bearish...)
	c.Neutral = append(c.Neutral, other.Neutral...)
}

// Len returns the total number of signals.
func (c ConfluenceSet) Len() int {
	return len(c.Bullish) + len(c.Bearish) + len(c.Neutral)
}

// Score sums the strength weights of signals.
func Score(signals []Signal) int {
	total := 0
	for _, s := range signals {
		total += s.Strength.Weight()
	}
	return total
}

// BiasLabel is the aggregate verdict.
type BiasLabel string

const (
	BiasBullish  BiasLabel = "Bullish Bias"
	BiasBearish  BiasLabel = "Bearish Bias"
	BiasMixed    BiasLabel = "Mixed/Neutral"
	BiasNoSignal BiasLabel = "No Clear Signal"
)

// Bias is the aggregated direction with a confidence percentage in [0,100].
type Bias struct {
	Label        BiasLabel `json:"label"`
	Confidence   float64   `json:"confidence"`
	BullishScore int       `json:"bullish_score"`
	BearishScore int       `json:"bearish_score"`
	NeutralScore int       `json:"neutral_score"`
}
