// Package initializer prepares the book store before the HTTP service starts:
// it creates the book table and loads the seed dataset.
//
// Every failure is logged and swallowed. Running the initializer against a store that
// is already set up leaves the data as it is and lets the process start normally.
package initializer

import (
	"context"
	"errors"

	"github.com/eroberer/bookcatalog/catalog"
)

// SeededBooksMetric is the gauge of books inserted by the last run, labeled with its status.
const SeededBooksMetric = "catalog_seeded_books"

const (
	statusSuccess = "success"
	statusError   = "error"
	labelStatus   = "status"
)

const (
	logMsgSchemaCreated    = "book table created"
	logMsgSchemaFailed     = "creating book table failed, assuming it exists"
	logMsgSeedLoadFailed   = "loading seed dataset failed"
	logMsgSeedInsertFailed = "seeding books failed, keeping the current data"
	logMsgSeedCompleted    = "seed dataset loaded"
	logAttrError           = "error"
	logAttrISBN            = "isbn"
	logAttrInserted        = "inserted"
	logAttrSeedSize        = "seed_size"
	logAttrSeedFile        = "seed_file"
)

// Report describes the outcome of one initialization run.
type Report struct {
	SchemaCreated bool
	SchemaErr     error
	Inserted      int
	SeedErr       error
}

// Initializer creates the schema and loads the seed dataset through a catalog.StatementExecutor.
type Initializer struct {
	executor         catalog.StatementExecutor
	seed             []catalog.Book
	seedFile         string
	logger           catalog.Logger
	contextualLogger catalog.ContextualLogger
	metrics          catalog.MetricsCollector
}

// Option defines a functional option for configuring an Initializer.
type Option func(*Initializer)

// WithSeed replaces the bundled dataset.
func WithSeed(books []catalog.Book) Option {
	return func(i *Initializer) {
		i.seed = books
	}
}

// WithSeedFile loads the dataset from a JSON file instead of the bundled one. An empty path is ignored.
func WithSeedFile(path string) Option {
	return func(i *Initializer) {
		i.seedFile = path
	}
}

// WithLogger sets the logger for the Initializer.
func WithLogger(logger catalog.Logger) Option {
	return func(i *Initializer) {
		i.logger = logger
	}
}

// WithMetrics sets the collector receiving SeededBooksMetric at the end of every run.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(i *Initializer) {
		i.metrics = collector
	}
}

// WithContextualLogger sets the contextual logger for the Initializer.
func WithContextualLogger(logger catalog.ContextualLogger) Option {
	return func(i *Initializer) {
		i.contextualLogger = logger
	}
}

// New creates an Initializer on top of the given executor.
func New(executor catalog.StatementExecutor, options ...Option) (*Initializer, error) {
	if executor == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	i := &Initializer{executor: executor}

	for _, option := range options {
		option(i)
	}

	return i, nil
}

// Init creates the book table and inserts the seed books one after another in dataset order.
// A failing table creation is logged and initialization continues. The first failing insert
// ends the seed sequence; books inserted before it stay in the store.
func (i *Initializer) Init(ctx context.Context) Report {
	var report Report

	if _, err := i.executor.Exec(ctx, catalog.CreateBookTable, catalog.NoParams()); err != nil {
		report.SchemaErr = err
		i.logWarn(ctx, logMsgSchemaFailed, logAttrError, err.Error())
	} else {
		report.SchemaCreated = true
		i.logInfo(ctx, logMsgSchemaCreated)
	}

	books, err := i.loadSeed()
	if err != nil {
		report.SeedErr = err
		i.logError(ctx, logMsgSeedLoadFailed, logAttrError, err.Error(), logAttrSeedFile, i.seedFile)
		i.recordSeeded(ctx, report)

		return report
	}

	for _, book := range books {
		if ctxErr := ctx.Err(); ctxErr != nil {
			report.SeedErr = ctxErr
			break
		}

		params := catalog.IndexedParams(catalog.ToIndexedParameters(book)...)
		if _, execErr := i.executor.Exec(ctx, catalog.InsertBook, params); execErr != nil {
			report.SeedErr = execErr
			break
		}

		report.Inserted++
	}

	if report.SeedErr != nil {
		i.logWarn(
			ctx,
			logMsgSeedInsertFailed,
			logAttrError, report.SeedErr.Error(),
			logAttrInserted, report.Inserted,
			logAttrSeedSize, len(books),
		)
		i.recordSeeded(ctx, report)

		return report
	}

	i.logInfo(ctx, logMsgSeedCompleted, logAttrInserted, report.Inserted)
	i.recordSeeded(ctx, report)

	return report
}

func (i *Initializer) recordSeeded(ctx context.Context, report Report) {
	if i.metrics == nil {
		return
	}

	labels := map[string]string{labelStatus: statusSuccess}
	if report.SeedErr != nil {
		labels[labelStatus] = statusError
	}

	if contextual, ok := i.metrics.(catalog.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, SeededBooksMetric, float64(report.Inserted), labels)
		return
	}

	i.metrics.RecordValue(SeededBooksMetric, float64(report.Inserted), labels)
}

func (i *Initializer) loadSeed() ([]catalog.Book, error) {
	switch {
	case i.seed != nil:
		return i.seed, nil
	case i.seedFile != "":
		return LoadSeedFile(i.seedFile)
	default:
		return BundledSeed()
	}
}

// Failed reports whether any step of the run failed.
func (r Report) Failed() bool {
	return r.SchemaErr != nil || r.SeedErr != nil
}

// Err joins the schema and seed failures of the run.
func (r Report) Err() error {
	return errors.Join(r.SchemaErr, r.SeedErr)
}

func (i *Initializer) logInfo(ctx context.Context, msg string, args ...any) {
	if i.logger != nil {
		i.logger.Info(msg, args...)
	}

	if i.contextualLogger != nil {
		i.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

func (i *Initializer) logWarn(ctx context.Context, msg string, args ...any) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}

	if i.contextualLogger != nil {
		i.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

func (i *Initializer) logError(ctx context.Context, msg string, args ...any) {
	if i.logger != nil {
		i.logger.Error(msg, args...)
	}

	if i.contextualLogger != nil {
		i.contextualLogger.ErrorContext(ctx, msg, args...)
	}
}
