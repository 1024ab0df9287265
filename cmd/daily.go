package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/logger"
	"github.com/etnz/tcgtracker/renderer"
	"github.com/etnz/tcgtracker/site"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

// siteReport is the markdown of the site index page.
func siteReport(s *tracker.Summary, a *app) string {
	var b strings.Builder
	b.WriteString(renderer.SummaryMarkdown(s, a.tracker.Catalog(), renderer.SummaryOptions{Days: 30}))
	b.WriteString("\n")
	b.WriteString(renderer.HoldingsMarkdown(a.tracker.Holdings(s), a.tracker.Catalog()))
	return b.String()
}

// publish writes the site and uploads it when a bucket is configured.
func publish(ctx context.Context, a *app, s *tracker.Summary) ([]string, error) {
	content := site.Content{
		Title:    "TCG Collection",
		Holdings: a.tracker.Holdings(s),
		Rows:     s.Rows,
		Ledger:   a.tracker.Ledger(),
		Report:   siteReport(s, a),
	}
	dir := a.cfg.Path(a.cfg.Site.Dir)
	if a.cfg.Site.Bucket == "" {
		return site.Publish(ctx, dir, content, nil)
	}
	bucket, err := site.NewBucket(ctx, a.cfg.Site.Bucket, a.cfg.Site.Prefix)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()
	return site.Publish(ctx, dir, content, bucket)
}

// daily fetches today's prices, rebuilds the summary and publishes the site.
// A failed fetch is only a warning: the summary carries the last known prices.
func daily(ctx context.Context, a *app) error {
	log := logger.FromContext(ctx)
	log.Info().Stringer("day", a.tracker.Today()).Msg("daily run")

	n, err := a.tracker.FetchToday(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("cannot fetch today's prices")
	} else {
		log.Info().Int("prices", n).Msg("today's prices recorded")
	}

	s, err := a.tracker.Rebuild(ctx)
	if err != nil {
		return err
	}
	if latest, ok := s.Latest(); ok {
		log.Info().Stringer("value", latest.TotalValue).Stringer("cost_basis", latest.CostBasis).Int("gaps", s.Gaps.Len()).Msg("summary saved")
	}

	names, err := publish(ctx, a, s)
	if err != nil {
		return err
	}
	log.Info().Int("files", len(names)).Str("dir", a.cfg.Path(a.cfg.Site.Dir)).Msg("site published")
	return nil
}

// --- Daily Command ---

type dailyCmd struct{}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "fetch today's prices, rebuild and publish" }
func (*dailyCmd) Usage() string {
	return `tcg daily

  Runs the daily job once: fetches today's prices of the held products,
  rebuilds the daily summary and the price gaps report, then publishes the
  site data.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {}

func (c *dailyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, daily)
}

// --- Publish Command ---

type publishCmd struct{}

func (*publishCmd) Name() string     { return "publish" }
func (*publishCmd) Synopsis() string { return "write the static site and upload it" }
func (*publishCmd) Usage() string {
	return `tcg publish

  Writes data/holdings.json, data/daily_summary.json, data/transactions.json
  and index.html into site.dir, and uploads them to site.bucket when set.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		s, err := a.tracker.Summarize(ctx)
		if err != nil {
			return err
		}
		names, err := publish(ctx, a, s)
		for _, name := range names {
			fmt.Println(name)
		}
		return err
	})
}

// --- Schedule Command ---

type scheduleCmd struct {
	spec   string
	runNow bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "run the daily job on a schedule" }
func (*scheduleCmd) Usage() string {
	return `tcg schedule [-cron <spec>] [-now]

  Runs the daily job on a cron schedule in the configured timezone until
  interrupted. The schedule defaults to schedule.daily_cron.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.spec, "cron", "", "Cron expression (minute hour dom month dow)")
	f.BoolVar(&c.runNow, "now", false, "Also run the job at start")
}

func (c *scheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	spec := c.spec
	if spec == "" {
		spec = cfg.Schedule.DailyCron
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.FromContext(ctx)

	// the ledger is reloaded on every run to see the edits made in between.
	job := func() {
		a, err := openApp()
		if err != nil {
			log.Error().Err(err).Msg("cannot open tracker")
			return
		}
		defer a.Close()
		if err := daily(ctx, a); err != nil {
			log.Error().Err(err).Msg("daily run failed")
		}
	}

	scheduler := cron.New(cron.WithLocation(cfg.Location()))
	if _, err := scheduler.AddFunc(spec, job); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", spec, err)
		return subcommands.ExitUsageError
	}
	if c.runNow {
		job()
	}
	scheduler.Start()
	log.Info().Str("cron", spec).Str("timezone", cfg.Timezone).Msg("scheduler started")

	<-ctx.Done()
	<-scheduler.Stop().Done()
	log.Info().Msg("scheduler stopped")
	return subcommands.ExitSuccess
}
