package app

import (
	"context"
	"log"

	"github.com/HexHunters/Tickr-sub001/internal/clock"
	"github.com/HexHunters/Tickr-sub001/internal/domain"
)

// CompletionReport summarizes one sweep over ended published events.
type CompletionReport struct {
	Processed int               `json:"processed"`
	Completed int               `json:"completed"`
	Failed    int               `json:"failed"`
	Errors    []CompletionError `json:"errors,omitempty"`
}

type CompletionError struct {
	EventID string `json:"event_id"`
	Error   string `json:"error"`
}

// CompletionService marks published events whose occurrence has ended as
// completed. Each event is processed independently so one failure never
// aborts the batch; the scheduler decides when (and whether) to run it, and
// it can always be invoked out of schedule for manual recovery.
type CompletionService struct {
	repo      EventRepository
	publisher EventPublisher
	clock     clock.Clock
	logger    *log.Logger
}

func NewCompletionService(repo EventRepository, publisher EventPublisher, clk clock.Clock, logger *log.Logger) *CompletionService {
	if logger == nil {
		logger = log.Default()
	}
	return &CompletionService{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// Run sweeps once and reports per-item outcomes.
func (s *CompletionService) Run(ctx context.Context) (CompletionReport, error) {
	now := s.clock.Now()

	ids, err := s.repo.ListEndedPublished(ctx, now)
	if err != nil {
		return CompletionReport{}, err
	}

	report := CompletionReport{Processed: len(ids)}
	for _, id := range ids {
		completed, err := s.completeOne(ctx, id)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, CompletionError{EventID: id, Error: err.Error()})
			s.logger.Printf("WARN: complete event %s: %v", id, err)
			continue
		}
		if completed {
			report.Completed++
		}
	}
	return report, nil
}

func (s *CompletionService) completeOne(ctx context.Context, eventID string) (bool, error) {
	now := s.clock.Now()
	var event *domain.Event
	var completed bool

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		loaded, err := s.repo.GetForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}
		event = loaded
		// MarkCompleted is a no-op when another sweep got here first.
		if completed = event.MarkCompleted(now); !completed {
			return nil
		}
		return s.repo.Save(txCtx, event)
	})
	if err != nil {
		return false, err
	}

	if completed && s.publisher != nil {
		if err := s.publisher.Publish(ctx, event.PullEvents()); err != nil {
			s.logger.Printf("WARN: publish completion events for event %s: %v", eventID, err)
		}
	}
	return completed, nil
}
