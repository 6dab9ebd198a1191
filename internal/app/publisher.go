package app

import (
	"context"
	"log"

	"github.com/HexHunters/Tickr-sub001/internal/domain"
)

// LogPublisher writes drained domain events to the service log. It stands in
// for a real message broker until one is wired up.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, events []domain.DomainEvent) error {
	for _, e := range events {
		p.logger.Printf("domain event type=%s occurred_at=%s", e.EventType(), e.OccurredAt().Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}
