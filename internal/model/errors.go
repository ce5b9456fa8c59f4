package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means no usable series could be obtained.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrInsufficientData means too few complete indicator rows survived warm-up.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMalformedCandle means a candle broke the OHLC invariants.
	ErrMalformedCandle = errors.New("malformed candle")
)

// InsufficientDataError reports how many usable rows were left.
type InsufficientDataError struct {
	Rows int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d usable rows, need at least %d", e.Rows, e.Min)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// MalformedCandleError identifies the offending candle.
type MalformedCandleError struct {
	Index  int
	Reason string
}

func (e *MalformedCandleError) Error() string {
	return fmt.Sprintf("malformed candle at index %d: %s", e.Index, e.Reason)
}

func (e *MalformedCandleError) Is(target error) bool { return target == ErrMalformedCandle }
