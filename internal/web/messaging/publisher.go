package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

//go:generate mockery --name ReportEventPublisher --output mocks --outpkg mocks

// ReportEvent - событие о новой жалобе для очереди модерации.
type ReportEvent struct {
	ReportID    uuid.UUID `json:"report_id"`
	StoryID     uuid.UUID `json:"story_id"`
	ReporterID  uuid.UUID `json:"reporter_id"`
	Reason      string    `json:"reason"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportEventPublisher публикует события о жалобах.
type ReportEventPublisher interface {
	PublishReportCreated(ctx context.Context, event ReportEvent) error
}

// rabbitMQReportPublisher реализует ReportEventPublisher поверх RabbitMQ.
type rabbitMQReportPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQReportPublisher создает паблишер и объявляет очередь.
// Очередь durable, параметры должны совпадать с консьюмером.
func NewRabbitMQReportPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (ReportEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("report publisher: не удалось открыть канал: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("report publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	return &rabbitMQReportPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("ReportPublisher"),
	}, nil
}

func (p *rabbitMQReportPublisher) PublishReportCreated(ctx context.Context, event ReportEvent) error {
	if p.channel == nil {
		return errors.New("канал RabbitMQ не инициализирован")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события жалобы: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		"",          // exchange (используем default)
		p.queueName, // routing key (имя очереди)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        "web-service",
		},
	)
	if err != nil {
		return fmt.Errorf("ошибка публикации в очередь %s: %w", p.queueName, err)
	}
	p.logger.Debug("report event published",
		zap.String("reportID", event.ReportID.String()),
		zap.String("queue", p.queueName))
	return nil
}

// NopReportPublisher - заглушка на случай, когда RabbitMQ не настроен.
type NopReportPublisher struct{}

func (NopReportPublisher) PublishReportCreated(context.Context, ReportEvent) error { return nil }
