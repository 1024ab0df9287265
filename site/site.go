// Package site writes the static web site of the collection: the data files
// read by the front end and an index page, optionally uploaded to a bucket.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/logger"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Names of the published files, relative to the site directory.
const (
	HoldingsFile     = "data/holdings.json"
	SummaryFile      = "data/daily_summary.json"
	TransactionsFile = "data/transactions.json"
	IndexFile        = "index.html"
	NoJekyllFile     = ".nojekyll"
)

// Holding is a line of holdings.json.
type Holding struct {
	CategoryID  tracker.ID       `json:"categoryId"`
	GroupID     tracker.ID       `json:"group_id"`
	ProductID   tracker.ID       `json:"product_id"`
	Name        string           `json:"name"`
	ImageURL    string           `json:"imageUrl"`
	URL         string           `json:"url"`
	Quantity    tracker.Quantity `json:"quantity"`
	LatestPrice tracker.Money    `json:"latest_price"`
	TotalValue  tracker.Money    `json:"total_value"`
}

// Content is what gets published.
type Content struct {
	Title    string
	Holdings *tracker.HoldingReport
	Rows     []tracker.DailySummaryRow
	Ledger   *tracker.Ledger
	Report   string // markdown rendered into the index page
}

func holdings(r *tracker.HoldingReport) []Holding {
	list := []Holding{}
	if r == nil {
		return list
	}
	for _, h := range r.Holdings {
		list = append(list, Holding{
			CategoryID:  h.Product.Category,
			GroupID:     h.Product.Group,
			ProductID:   h.Product.Product,
			Name:        h.Name,
			ImageURL:    h.ImageURL,
			URL:         h.URL,
			Quantity:    h.Quantity,
			LatestPrice: h.Price,
			TotalValue:  h.Value.Round(),
		})
	}
	return list
}

// Render converts the markdown report into a standalone HTML page.
func Render(title, report string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(report), &body); err != nil {
		return nil, fmt.Errorf("cannot render index page: %w", err)
	}
	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", title)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// files encodes every published file, keyed by its relative name.
func files(c Content) (map[string][]byte, error) {
	out := make(map[string][]byte)

	data, err := json.MarshalIndent(holdings(c.Holdings), "", "  ")
	if err != nil {
		return nil, err
	}
	out[HoldingsFile] = data

	var buf bytes.Buffer
	if err := tracker.EncodeSummary(&buf, c.Rows); err != nil {
		return nil, err
	}
	out[SummaryFile] = slices.Clone(buf.Bytes())

	buf.Reset()
	ledger := c.Ledger
	if ledger == nil {
		ledger = tracker.NewLedger()
	}
	if err := tracker.EncodeLedger(&buf, ledger); err != nil {
		return nil, err
	}
	out[TransactionsFile] = slices.Clone(buf.Bytes())

	title := c.Title
	if title == "" {
		title = "Collection"
	}
	if out[IndexFile], err = Render(title, c.Report); err != nil {
		return nil, err
	}
	out[NoJekyllFile] = nil
	return out, nil
}

// Write writes the site into dir and returns the written names, sorted.
func Write(ctx context.Context, dir string, c Content) ([]string, error) {
	log := logger.FromContext(ctx)
	content, err := files(c)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(content))
	for name, data := range content {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := tracker.WriteFileAtomic(path, data); err != nil {
			return nil, err
		}
		log.Debug().Str("file", path).Int("bytes", len(data)).Msg("site file written")
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Uploader copies a site file to a remote location.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) error
}

// Upload sends the named files from dir with up.
func Upload(ctx context.Context, up Uploader, dir string, names []string) error {
	log := logger.FromContext(ctx)
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		err = up.Upload(ctx, name, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", name, err)
		}
		log.Info().Str("file", name).Msg("uploaded")
	}
	return nil
}

// Publish writes the site into dir then uploads it when up is not nil.
func Publish(ctx context.Context, dir string, c Content, up Uploader) ([]string, error) {
	names, err := Write(ctx, dir, c)
	if err != nil {
		return nil, err
	}
	if up == nil {
		return names, nil
	}
	return names, Upload(ctx, up, dir, names)
}
