package renderer

import (
	"bytes"
	"fmt"
	"io"

	tracker "github.com/etnz/tcgtracker"
	md "github.com/nao1215/markdown"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// productCell names k, linked to its market page when the catalog knows it.
func productCell(catalog *tracker.Catalog, k tracker.ProductKey) string {
	if catalog == nil {
		return k.String()
	}
	p, ok := catalog.Lookup(k.Group, k.Product)
	if !ok {
		return k.String()
	}
	name := p.Name
	if name == "" {
		name = k.String()
	}
	if p.URL == "" {
		return name
	}
	return md.Link(name, p.URL)
}

// percent formats gain relative to base, "-" when base is zero.
func percent(gain, base tracker.Money) string {
	if base.IsZero() {
		return "-"
	}
	r, _ := gain.Ratio(base).Mul(decimalHundred).Round(2).Float64()
	return fmt.Sprintf("%+.2f%%", r)
}
