// Package upload sends a word list to a dictionary in sequential batches,
// one aggregated mutation per batch.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// DefaultBatchSize is the number of words per mutation.
const DefaultBatchSize = 128

// WordWriter writes one batch of normalized words.
type WordWriter interface {
	UpsertWords(ctx context.Context, dictionaryID string, words []string, offset int) error
}

// Refresher re-issues the active list queries once the upload completes.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Progress reports how many words have been committed.
type Progress struct {
	Uploaded int
	Total    int
}

func (p Progress) String() string {
	return strconv.Itoa(p.Uploaded) + "/" + strconv.Itoa(p.Total)
}

// Done reports whether every word has been committed.
func (p Progress) Done() bool { return p.Uploaded >= p.Total }

// Options tunes batching and retry.
type Options struct {
	BatchSize int
	// MaxAttempts bounds the tries per batch, the first one included.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 1
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 500 * time.Millisecond
	}
	if o.MaxBackoff < o.InitialBackoff {
		o.MaxBackoff = o.InitialBackoff
	}
	return o
}

// Uploader runs chunked word uploads.
type Uploader struct {
	writer    WordWriter
	refresher Refresher
	opts      Options
	log       *slog.Logger
}

// NewUploader creates an Uploader. refresher may be nil.
func NewUploader(writer WordWriter, refresher Refresher, opts Options, log *slog.Logger) *Uploader {
	return &Uploader{
		writer:    writer,
		refresher: refresher,
		opts:      opts.withDefaults(),
		log:       log.With("component", "upload"),
	}
}

// Parse splits a word-list file into normalized words, one per line.
// Blank lines are skipped.
func Parse(text string) []string {
	lines := strings.Split(text, "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		if w := domain.NormalizeWord(line); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Batches returns the number of mutations an upload of n words issues.
func (u *Uploader) Batches(n int) int {
	return (n + u.opts.BatchSize - 1) / u.opts.BatchSize
}

// Upload writes words into dictionaryID batch by batch. The next batch is
// dispatched only after the previous one succeeded. onProgress, when set,
// runs after every committed batch. A batch that keeps failing aborts the
// upload with *domain.UploadBatchFailedError; earlier batches stay
// committed.
func (u *Uploader) Upload(ctx context.Context, dictionaryID string, words []string, onProgress func(Progress)) (Progress, error) {
	progress := Progress{Total: len(words)}
	size := u.opts.BatchSize

	u.log.InfoContext(ctx, "upload started",
		slog.String("dictionary", dictionaryID),
		slog.Int("words", len(words)),
		slog.Int("batches", u.Batches(len(words))),
	)

	for start, index := 0, 0; start < len(words); start, index = start+size, index+1 {
		if err := ctx.Err(); err != nil {
			return progress, fmt.Errorf("upload canceled at %s: %w", progress, err)
		}

		end := min(start+size, len(words))
		if err := u.sendBatch(ctx, dictionaryID, words[start:end], start); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return progress, fmt.Errorf("upload canceled at %s: %w", progress, ctxErr)
			}
			u.log.ErrorContext(ctx, "upload batch failed",
				slog.Int("batch", index),
				slog.String("progress", progress.String()),
				slog.String("error", err.Error()),
			)
			return progress, &domain.UploadBatchFailedError{
				BatchIndex: index,
				Uploaded:   progress.Uploaded,
				Message:    err.Error(),
				Err:        err,
			}
		}

		progress.Uploaded = end
		u.log.DebugContext(ctx, "upload batch committed",
			slog.Int("batch", index),
			slog.String("progress", progress.String()),
		)
		if onProgress != nil {
			onProgress(progress)
		}
	}

	u.log.InfoContext(ctx, "upload finished", slog.String("progress", progress.String()))

	if u.refresher != nil {
		if err := u.refresher.RefreshAll(ctx); err != nil {
			u.log.WarnContext(ctx, "refresh after upload failed", slog.String("error", err.Error()))
		}
	}
	return progress, nil
}

// sendBatch retries only this batch.
func (u *Uploader) sendBatch(ctx context.Context, dictionaryID string, batch []string, offset int) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = u.opts.InitialBackoff
	b.MaxInterval = u.opts.MaxBackoff
	b.MaxElapsedTime = 0

	attempt := 0
	op := func() error {
		attempt++
		err := u.writer.UpsertWords(ctx, dictionaryID, batch, offset)
		if err != nil && (errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUnauthorized)) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		u.log.WarnContext(ctx, "upload batch retry",
			slog.Int("offset", offset),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(u.opts.MaxAttempts-1)), ctx)
	return backoff.RetryNotify(op, policy, notify)
}
