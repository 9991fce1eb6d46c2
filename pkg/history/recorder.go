package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RecorderConfig contains configuration for the run recorder.
type RecorderConfig struct {
	// Buffer is the size of the async write channel.
	// Default: 64.
	Buffer int

	// WriteTimeout bounds each storage write.
	// Default: 5 seconds.
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Buffer:       64,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes run records to storage asynchronously. Records are
// dropped (and the drop logged) rather than ever blocking a validation
// run on a slow backend.
type Recorder struct {
	storage Storage
	config  *RecorderConfig
	records chan *RunRecord
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger

	closeOnce sync.Once
}

// NewRecorder creates a recorder and starts its background writer.
func NewRecorder(storage Storage, config *RecorderConfig, logger *slog.Logger) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		records: make(chan *RunRecord, config.Buffer),
		done:    make(chan struct{}),
		logger:  logger.With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.drain()

	return r
}

// Record enqueues a run record for persistence. It never blocks.
func (r *Recorder) Record(record *RunRecord) {
	select {
	case r.records <- record:
	default:
		r.logger.Warn("history buffer full, dropping run record", "id", record.ID)
	}
}

// Close flushes pending records and stops the writer.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.records)
		r.wg.Wait()
		close(r.done)
	})
}

// drain writes queued records until the channel closes.
func (r *Recorder) drain() {
	defer r.wg.Done()

	for record := range r.records {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
		err := r.storage.Store(ctx, record)
		cancel()

		if err != nil {
			r.logger.Error("failed to store run record",
				"id", record.ID,
				"error", err,
			)
			continue
		}
		r.logger.Debug("run record stored", "id", record.ID, "valid", record.Valid)
	}
}
