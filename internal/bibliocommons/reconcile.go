package bibliocommons

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lepinkainen/stacks/internal/book"
)

// ReconcileOptions configure one reconciliation run.
type ReconcileOptions struct {
	// Branch scopes every query to books currently available at this
	// branch. Empty means the whole library system.
	Branch string
	// Language restricts results by ISO language code, e.g. "eng".
	Language string
	// AllFormats includes ebooks, audiobooks and other non-book formats
	// in title/author searches.
	AllFormats bool
	// BatchSize is the number of descriptors per search query. Zero
	// means DefaultBatchSize.
	BatchSize int
	// MaxQueryLen caps the generated query length. Zero means
	// DefaultMaxQueryLen.
	MaxQueryLen int
	// Logger receives progress and degradation reports. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Reconciler matches want-to-read descriptors against one library catalog.
type Reconciler struct {
	client *Client
	opts   ReconcileOptions
	logger *slog.Logger
}

// NewReconciler creates a reconciler that searches through the given client.
func NewReconciler(client *Client, opts ReconcileOptions) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// pendingDetail is a search result whose call number has to come from the
// full-record endpoint.
type pendingDetail struct {
	itemID int64
	record book.Record
}

type searchOutcome struct {
	records []book.Record
	err     error
}

type detailOutcome struct {
	record     book.Record
	callNumber string
	err        error
}

// Reconcile looks every descriptor up in the catalog and passes each match
// to emit as soon as it is fully resolved. Emission happens on the calling
// goroutine, so emit needs no locking.
//
// Searches run in two waves. The first wave issues one batched query per
// chunk of descriptors; results whose feed entry already carries a call
// number are emitted immediately. The second wave starts only after every
// search has been drained and fetches the full record for the rest.
//
// A descriptor with no match in the catalog simply produces no record.
// Failures that affect a single book are logged and degrade that book
// only; an error return means the run as a whole could not proceed.
func (r *Reconciler) Reconcile(ctx context.Context, descriptors []book.Descriptor, emit func(book.Record)) error {
	r.logger.Info("Searching library catalog", "books", len(descriptors), "branch", r.opts.Branch)

	// Build every query up front so a batching defect aborts before any
	// network traffic.
	batches := chunk(descriptors, r.batchSize())
	queries := make([]string, len(batches))
	for i, batch := range batches {
		query, err := BatchQuery(batch, r.querySpec())
		if err != nil {
			return err
		}
		queries[i] = query
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending, err := r.searchWave(ctx, queries, emit)
	if err != nil {
		return err
	}

	// Barrier: every search has been drained, the detail workload is
	// fully known.
	if len(pending) == 0 {
		return ctx.Err()
	}
	r.logger.Debug("Fetching full records", "count", len(pending))
	r.detailWave(ctx, pending, emit)

	return ctx.Err()
}

// ReconcileAll collects the full result set. Prefer Reconcile when results
// can be consumed as they arrive.
func (r *Reconciler) ReconcileAll(ctx context.Context, descriptors []book.Descriptor) ([]book.Record, error) {
	var records []book.Record
	err := r.Reconcile(ctx, descriptors, func(record book.Record) {
		records = append(records, record)
	})
	return records, err
}

// searchWave runs every batched search concurrently and classifies results
// as they arrive. It returns the items that still need a full-record fetch.
func (r *Reconciler) searchWave(ctx context.Context, queries []string, emit func(book.Record)) ([]pendingDetail, error) {
	outcomes := make(chan searchOutcome)

	var wg sync.WaitGroup
	for _, query := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := r.client.Search(ctx, query)
			select {
			case outcomes <- searchOutcome{records: records, err: err}:
			case <-ctx.Done():
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var pending []pendingDetail
	for outcome := range outcomes {
		if outcome.err != nil {
			// Schema drift poisons every batch, not just this one.
			if IsUnstableAPIError(outcome.err) {
				return nil, outcome.err
			}
			r.logger.Error("Search batch failed", "error", outcome.err)
			continue
		}
		for _, record := range outcome.records {
			r.classify(record, emit, &pending)
		}
	}

	return pending, ctx.Err()
}

// classify routes one search result: emit it, queue it for the detail
// wave, or drop it.
func (r *Reconciler) classify(record book.Record, emit func(book.Record), pending *[]pendingDetail) {
	if record.Resolved() {
		emit(record)
		return
	}

	if record.FullRecordLink == "" {
		r.logger.Warn("No link given, can't get call number", "title", record.Title)
		return
	}

	itemID, err := ExtractItemID(record.FullRecordLink)
	if err != nil {
		r.logger.Warn("Could not extract item id", "title", record.Title, "error", err)
		emit(record)
		return
	}

	r.logger.Debug("No call number in feed, fetching full record", "title", record.Title)
	*pending = append(*pending, pendingDetail{itemID: itemID, record: record})
}

// detailWave fetches full records concurrently and emits each book as its
// call number arrives. A failed fetch degrades to emitting the partial
// record.
func (r *Reconciler) detailWave(ctx context.Context, pending []pendingDetail, emit func(book.Record)) {
	outcomes := make(chan detailOutcome)

	var wg sync.WaitGroup
	for _, p := range pending {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callNumber, err := r.client.FetchCallNumber(ctx, p.itemID)
			select {
			case outcomes <- detailOutcome{record: p.record, callNumber: callNumber, err: err}:
			case <-ctx.Done():
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		if outcome.err != nil {
			r.logger.Warn("Could not resolve call number", "title", outcome.record.Title, "error", outcome.err)
			emit(outcome.record)
			continue
		}
		record := outcome.record
		// The full record is authoritative over anything the feed said.
		record.CallNumber = outcome.callNumber
		emit(record)
	}
}

func (r *Reconciler) batchSize() int {
	if r.opts.BatchSize > 0 {
		return r.opts.BatchSize
	}
	return DefaultBatchSize
}

func (r *Reconciler) querySpec() QuerySpec {
	return QuerySpec{
		Branch:     r.opts.Branch,
		Language:   r.opts.Language,
		AllFormats: r.opts.AllFormats,
		MaxLength:  r.opts.MaxQueryLen,
	}
}
