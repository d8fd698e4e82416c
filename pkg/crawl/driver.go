package crawl

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"sitegraph/pkg/admit"
	"sitegraph/pkg/checkpoint"
	"sitegraph/pkg/config"
	"sitegraph/pkg/fetch"
	"sitegraph/pkg/graph"
	"sitegraph/pkg/utils"
)

// Driver runs the breadth-first crawl loop: dequeue, fetch, record the
// page, admit its links, checkpoint on cadence. Everything happens on the
// caller's goroutine; the crawl is deliberately single-threaded so BFS
// order, the page counter and checkpoint contents stay reproducible.
type Driver struct {
	log     *logrus.Entry
	cfg     *config.Config
	state   *State
	fetcher fetch.Fetcher
	filter  *admit.Filter
	store   checkpoint.Store
	limiter *rate.Limiter
	runID   string
}

// NewDriver assembles a Driver. runID is stamped into every snapshot this
// driver saves.
func NewDriver(
	cfg *config.Config,
	state *State,
	fetcher fetch.Fetcher,
	filter *admit.Filter,
	store checkpoint.Store,
	runID string,
	log *logrus.Entry,
) *Driver {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)
	}
	return &Driver{
		log:     log,
		cfg:     cfg,
		state:   state,
		fetcher: fetcher,
		filter:  filter,
		store:   store,
		limiter: limiter,
		runID:   runID,
	}
}

// Run executes the crawl until the frontier empties, the page budget is
// reached, or ctx is cancelled. The returned count is the total number of
// pages processed across all runs of this crawl: a resumed visited set
// counts toward the budget.
//
// On cancellation the driver saves a checkpoint and returns the wrapped
// cause; on a panic it saves a best-effort checkpoint and re-panics.
func (d *Driver) Run(ctx context.Context) (int, error) {
	counter := d.state.VisitedCount()
	startCount := counter

	defer func() {
		if r := recover(); r != nil {
			d.log.Errorf("Panic during crawl, saving checkpoint before re-raising: %v", r)
			if err := d.saveCheckpoint(); err != nil {
				d.log.Errorf("Checkpoint save after panic failed: %v", err)
			}
			panic(r)
		}
	}()

	d.log.WithFields(logrus.Fields{
		"budget":   d.cfg.MaxPages,
		"visited":  counter,
		"frontier": d.state.FrontierLen(),
	}).Info("Crawl loop starting")

	for d.state.FrontierLen() > 0 && counter < d.cfg.MaxPages {
		// The limiter paces requests and doubles as the cancellation
		// point: Wait returns ctx.Err() once the context is done, before
		// the next URL is dequeued.
		if err := d.limiter.Wait(ctx); err != nil {
			return counter, d.interrupt(err)
		}

		counter++
		pageURL, _ := d.state.Dequeue()
		if d.state.IsVisited(pageURL) {
			counter--
			continue
		}

		if err := d.processPage(ctx, pageURL, counter); err != nil {
			// Cancelled mid-fetch: the page was not recorded. Put it
			// back so the resumed crawl picks it up again.
			counter--
			d.state.Requeue(pageURL)
			return counter, d.interrupt(err)
		}

		if counter%d.cfg.CheckpointInterval == 0 {
			if err := d.saveCheckpoint(); err != nil {
				return counter, err
			}
			d.logFrontierSummary()
		}
	}

	reason := "frontier exhausted"
	if counter >= d.cfg.MaxPages {
		reason = "page budget reached"
	}
	d.log.WithFields(logrus.Fields{
		"pages_this_run": counter - startCount,
		"total_visited":  counter,
		"frontier":       d.state.FrontierLen(),
		"reason":         reason,
	}).Info("Crawl loop finished")
	return counter, nil
}

// processPage fetches one URL and folds the outcome into the crawl state.
// A fetch or parse failure is absorbed: the page is recorded as visited
// with no attributes and is never retried. The only non-nil return is the
// context error when the crawl was cancelled mid-fetch.
func (d *Driver) processPage(ctx context.Context, pageURL string, counter int) error {
	pageLog := d.log.WithField("url", pageURL)

	res, err := d.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pageLog.WithField("category", utils.CategorizeError(err)).Warnf("Fetch failed: %v", err)
		d.state.RecordPage(pageURL, nil)
		d.logProgress(counter, pageURL, graph.PageMeta{})
		return nil
	}

	d.state.RecordPage(pageURL, &res.Meta)

	base, err := url.Parse(pageURL)
	if err != nil {
		// Canonical URLs re-parse by construction; losing one page's
		// links is the worst this should ever do.
		pageLog.Errorf("Canonical URL failed to re-parse, links dropped: %v", err)
		d.logProgress(counter, pageURL, res.Meta)
		return nil
	}

	for _, href := range res.Links {
		canonical, admitErr := d.filter.Admit(href, base)
		if admitErr != nil {
			pageLog.WithFields(logrus.Fields{
				"href":     href,
				"category": utils.CategorizeError(admitErr),
			}).Debug("Link rejected")
			continue
		}
		d.state.AddLink(pageURL, canonical)
	}

	d.logProgress(counter, pageURL, res.Meta)
	return nil
}

// interrupt saves a checkpoint after a cancellation and wraps the cause.
// The save is unconditional: whatever was already recorded must survive.
func (d *Driver) interrupt(cause error) error {
	d.log.Warnf("Crawl interrupted: %v. Saving checkpoint...", cause)
	if err := d.saveCheckpoint(); err != nil {
		d.log.Errorf("Checkpoint save on interrupt failed: %v", err)
	}
	return fmt.Errorf("crawl interrupted: %w", cause)
}

// saveCheckpoint snapshots the current state and hands it to the store.
func (d *Driver) saveCheckpoint() error {
	snap := d.state.Snapshot(d.runID, d.cfg.SeedURL, d.cfg.Domain)
	if err := d.store.Save(snap); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	d.log.WithFields(logrus.Fields{
		"visited":  len(snap.Visited),
		"frontier": len(snap.Frontier),
		"nodes":    len(snap.Nodes),
		"edges":    len(snap.Edges),
	}).Info("Checkpoint saved")
	return nil
}

// logFrontierSummary reports queue composition after a checkpoint.
func (d *Driver) logFrontierSummary() {
	sum := d.state.Summarize(10, 5)
	if sum.Total == 0 {
		return
	}
	fields := logrus.Fields{"total": sum.Total}
	for _, ep := range sum.Endpoints {
		fields["/"+ep.Endpoint] = ep.Count
	}
	d.log.WithFields(fields).Info("Frontier composition")
	for _, u := range sum.Samples {
		d.log.Debugf("Frontier sample: %s", u)
	}
}

// logProgress emits the per-page progress line.
func (d *Driver) logProgress(counter int, pageURL string, meta graph.PageMeta) {
	d.log.WithFields(logrus.Fields{
		"page":     fmt.Sprintf("%d/%d", counter, d.cfg.MaxPages),
		"url":      pageURL,
		"title":    meta.Title,
		"words":    meta.WordCount,
		"pub_date": meta.PubDate,
		"frontier": d.state.FrontierLen(),
	}).Info("Processed page")
}
