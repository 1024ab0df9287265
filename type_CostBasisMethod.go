package tracker

import (
	"fmt"
	"strings"
)

// CostBasisMethod selects which cost leaves a product when units are sold,
// opened or traded away. Purchases are never affected.
type CostBasisMethod int

const (
	AverageCost CostBasisMethod = iota // cost removed in proportion of the quantity
	FIFO                               // oldest lots first
)

var costBasisNames = [...]string{AverageCost: "average", FIFO: "fifo"}

func (m CostBasisMethod) String() string {
	if m < 0 || int(m) >= len(costBasisNames) {
		return fmt.Sprintf("CostBasisMethod(%d)", int(m))
	}
	return costBasisNames[m]
}

// ParseCostBasisMethod reads "average" or "fifo", in any case. The empty
// string is AverageCost.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	if s == "" {
		return AverageCost, nil
	}
	for m, name := range costBasisNames {
		if strings.EqualFold(s, name) {
			return CostBasisMethod(m), nil
		}
	}
	return 0, fmt.Errorf("unknown cost basis method %q, want average or fifo", s)
}
