package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/inventory"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-app/pkg/broker"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"go.uber.org/zap"
)

// Reader is satisfied by *broker.KafkaConsumer.
type Reader interface {
	ReadMessage(ctx context.Context) (broker.Message, error)
}

type StockListener struct {
	consumer Reader
	uc       inventory.UseCase
	// company returns the signed-in company; events for other companies
	// are dropped. Nil or empty accepts everything.
	company func() string
	backoff time.Duration
	logger  logger.ZapLogger
}

func NewStockListener(consumer Reader, uc inventory.UseCase, company func() string, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		company:  company,
		backoff:  time.Second,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock event listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event dto.StockEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal stock event", zap.Error(err))
		return
	}

	if l.company != nil {
		if current := l.company(); current != "" && event.CompanyID != "" && event.CompanyID != current {
			return
		}
	}

	if err := l.uc.ApplyStockEvent(ctx, &event); err != nil {
		l.logger.Error("Failed to apply stock event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.String("item_id", event.ItemID),
			zap.Error(err),
		)
	}
}
