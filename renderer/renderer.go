// Package renderer turns tracker reports into markdown.
package renderer

import (
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// SummaryOptions holds configuration for rendering a summary report.
type SummaryOptions struct {
	Days         int  // number of most recent days listed, all of them when zero
	SkipWarnings bool // Do not render the data quality section.
}
