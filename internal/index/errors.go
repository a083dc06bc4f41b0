package index

import (
	"errors"
	"fmt"
	"time"
)

// Typed errors allow callers and tests to detect failure categories
// without string matching. Each one is local to a single trade date and
// never aborts batch processing of other dates.
var (
	ErrInvalidQuote       = errors.New("invalid quote")
	ErrEmptyChain         = errors.New("chain is missing an entire call or put side")
	ErrNoReferenceStrike  = errors.New("no strike at or below the forward")
	ErrInsufficientCohort = errors.New("no expiration pair brackets the target horizon")
	ErrDegenerateCohort   = errors.New("near-term and next-term expirations coincide")
)

// DateError attributes a failure to the trade date it occurred on, so batch
// reporting can name the date and keep going.
type DateError struct {
	TradeDate time.Time
	Err       error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %v", e.TradeDate.Format("2006-01-02"), e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }
