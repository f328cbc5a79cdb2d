package csvtail

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// Tailer follows one CSV file and appends converted records to a JSONL file.
// Progress is tracked as a count of consumed records; each poll re-reads the
// input from the top and skips records it has already consumed, so a tailer
// tolerates the input being replaced by a shorter file only by restarting.
type Tailer struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics

	// consumed counts data records already handled, written or skipped.
	// Skipped records count too, otherwise the offset would drift and
	// later polls would emit duplicates of the rows after a bad one.
	consumed int
}

// NewTailer creates a Tailer with config defaults applied. metrics may be
// nil to disable instrumentation.
func NewTailer(cfg Config, logger *slog.Logger, metrics *Metrics) *Tailer {
	cfg.ApplyDefaults()
	return &Tailer{
		cfg:     cfg,
		logger:  logger.With("component", "csvtail", "input", cfg.InputPath),
		metrics: metrics,
	}
}

// Run polls the input file until ctx is cancelled. The first poll runs
// immediately. A missing input file or a transient read error is logged and
// retried on the next tick; Run only returns on cancellation.
func (t *Tailer) Run(ctx context.Context) error {
	t.logger.Info("following input file", "output", t.cfg.OutputPath, "interval", t.cfg.Interval)

	t.poll()

	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			t.poll()
		}
	}
}

// poll runs one conversion cycle and logs the outcome.
func (t *Tailer) poll() {
	written, err := t.convertNew()
	switch {
	case errors.Is(err, os.ErrNotExist):
		t.logger.Warn("input file not found, will retry")
		if t.metrics != nil {
			t.metrics.PollErrors.Inc()
		}
	case err != nil:
		t.logger.Warn("poll failed, will retry", "error", err)
		if t.metrics != nil {
			t.metrics.PollErrors.Inc()
		}
	case written > 0:
		t.logger.Info("processed new records", "count", written, "total", t.consumed)
	default:
		t.logger.Debug("no new records")
	}
}

// convertNew reads records past the consumed offset, converts them, and
// appends the results to the output file. It returns the number of records
// written.
func (t *Tailer) convertNew() (int, error) {
	in, err := os.Open(t.cfg.InputPath)
	if err != nil {
		return 0, fmt.Errorf("csvtail: open input: %w", err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil // input exists but has no header yet
	}
	if err != nil {
		return 0, fmt.Errorf("csvtail: read header: %w", err)
	}

	out, err := os.OpenFile(t.cfg.OutputPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("csvtail: open output: %w", err)
	}
	defer out.Close()

	written := 0
	for index := 0; ; index++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("csvtail: read record: %w", err)
		}
		if index < t.consumed {
			continue
		}

		line, ok := t.convertRecord(header, record)
		t.consumed++
		if !ok {
			continue
		}
		if _, err := out.Write(append(line, '\n')); err != nil {
			// The record was not durably written; rewind so the next poll
			// retries it.
			t.consumed--
			return written, fmt.Errorf("csvtail: append output: %w", err)
		}
		written++
		if t.metrics != nil {
			t.metrics.RecordsProcessed.Inc()
		}
	}
	return written, nil
}

// convertRecord turns one CSV record into a JSONL line. Malformed records
// are logged and dropped; the pipeline favors continuing over completeness.
func (t *Tailer) convertRecord(header, record []string) ([]byte, bool) {
	row := make(map[string]string, len(header))
	for i, col := range header {
		if i >= len(record) {
			break
		}
		row[col] = record[i]
	}

	obj, err := ConvertRow(row)
	if err != nil {
		t.logger.Warn("skipping record", "error", err)
		if t.metrics != nil {
			t.metrics.RecordsSkipped.Inc()
		}
		return nil, false
	}

	line, err := json.Marshal(obj)
	if err != nil {
		t.logger.Warn("skipping record", "error", err)
		if t.metrics != nil {
			t.metrics.RecordsSkipped.Inc()
		}
		return nil, false
	}
	return line, true
}
