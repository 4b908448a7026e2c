package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mfeller/questlog/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultProcessorConfig returns sensible defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: 1 * time.Second,
		RetryBackoffMax:  1 * time.Minute,
	}
}

// Processor polls the outbox and publishes events to the message broker.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger

	wg       sync.WaitGroup
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the polling loop in a goroutine.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)

	return nil
}

// Stop gracefully stops the processor.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning returns true if the processor is running.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error("failed to process outbox batch", "error", err)
			}
		}
	}
}

func (p *Processor) processBatch(ctx context.Context) error {
	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			p.handleFailure(ctx, msg, err)
			continue
		}

		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Error("failed to mark message published",
				"message_id", msg.ID,
				"error", err,
			)
		}
	}

	return nil
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, publishErr error) {
	if !msg.CanRetry(p.config.MaxRetries) {
		p.logger.Warn("message exceeded max retries, dead-lettering",
			"message_id", msg.ID,
			"routing_key", msg.RoutingKey,
			"retries", msg.RetryCount,
		)
		if err := p.repo.MarkDead(ctx, msg.ID, publishErr.Error()); err != nil {
			p.logger.Error("failed to dead-letter message", "message_id", msg.ID, "error", err)
		}
		return
	}

	nextRetry := time.Now().Add(p.backoff(msg.RetryCount))
	if err := p.repo.MarkFailed(ctx, msg.ID, publishErr.Error(), nextRetry); err != nil {
		p.logger.Error("failed to record publish failure", "message_id", msg.ID, "error", err)
	}
}

// backoff returns an exponential backoff duration capped at RetryBackoffMax.
func (p *Processor) backoff(retryCount int) time.Duration {
	d := p.config.RetryBackoffBase
	for i := 0; i < retryCount; i++ {
		d *= 2
		if d >= p.config.RetryBackoffMax {
			return p.config.RetryBackoffMax
		}
	}
	return d
}
