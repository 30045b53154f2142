package model

import "github.com/shopspring/decimal"

// AverageBlockTimeHour is a singleton row (one_row_id sentinel) holding the
// rolling hourly average block production time.
type AverageBlockTimeHour struct {
	AverageBlockTime decimal.Decimal
	Height           int64
}

// AverageBlockTimeDay is a singleton row (one_row_id sentinel) holding the
// rolling daily average block production time.
type AverageBlockTimeDay struct {
	AverageBlockTime decimal.Decimal
	Height           int64
}
