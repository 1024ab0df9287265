// Package tracker keeps a trading-card-game collection as an investment
// portfolio. It is local-first: everything lives in a few human-readable JSON
// files that can be versioned.
//
// The core functionalities include:
//   - Transaction Log: BUY, SELL, OPEN and TRADE events on sealed products and
//     singles, each effective on the day the items were received.
//   - Catalog: the products referenced by the log, with their display metadata.
//   - Price Store: a sparse per-product history of daily market prices.
//   - Timeline: a replay of the log producing the quantity held of every product
//     and the cost basis on every calendar day, refusing any negative inventory.
//   - Valuation: the daily market value of the timeline, carrying the last known
//     price forward on days without a quote.
//   - Daily Summary: the derived {date, total_value, cost_basis} series consumed
//     by reports and the static site.
//
// This package serves as the foundational logic for the `tcg` command-line
// tool.
package tracker
