package tracker

import "github.com/etnz/tcgtracker/date"

// Date and Range are re-exported so that callers of the root package rarely
// need to import the date package.
type (
	Date  = date.Date
	Range = date.Range
)

// NewDate returns a normalized Date for the given year, month, and day.
var NewDate = date.New

// ParseDate parses a YYYY-MM-DD date, leniently.
var ParseDate = date.Parse

// NewRange returns the range of days between from and to, inclusive.
var NewRange = date.NewRange

// PriceHistory is the sparse market price series of a product.
type PriceHistory = date.History[Money]
