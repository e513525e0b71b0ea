package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher defines the interface for event publishing
type Publisher interface {
	// Photo events
	PublishPhotoUploaded(ctx context.Context, photoID, ownerID, title string) error
	PublishPhotoDeleted(ctx context.Context, photoID, ownerID string) error

	// Album events
	PublishAlbumCreated(ctx context.Context, albumID, ownerID, name string) error
	PublishAlbumDeleted(ctx context.Context, albumID string) error

	// Comment events
	PublishCommentCreated(ctx context.Context, commentID, photoID, authorID string) error

	// Member events
	PublishUserRegistered(ctx context.Context, userID, email, displayName, relation string) error

	// Close closes the publisher connection
	Close() error
}

// EventPublisher implements the Publisher interface using RabbitMQ
type EventPublisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	enabled      bool
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(rabbitURI string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{
			enabled: false,
		}, nil
	}

	// Connect to RabbitMQ
	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	// Create a channel
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Declare the exchange
	exchangeName := "photobomb.events"
	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &EventPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		enabled:      true,
	}, nil
}

// publishEvent publishes an event to RabbitMQ
func (p *EventPublisher) publishEvent(ctx context.Context, routingKey string, event interface{}) error {
	if !p.enabled {
		log.Printf("Event publishing is disabled, skipping event: %s", routingKey)
		return nil
	}

	// Convert event to JSON
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Create publishing context with timeout
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Publish the event
	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("Published event: %s", routingKey)
	return nil
}

// PublishPhotoUploaded publishes a photo uploaded event
func (p *EventPublisher) PublishPhotoUploaded(ctx context.Context, photoID, ownerID, title string) error {
	event := NewPhotoUploadedEvent(photoID, ownerID, title)
	return p.publishEvent(ctx, string(EventTypePhotoUploaded), event)
}

// PublishPhotoDeleted publishes a photo deleted event
func (p *EventPublisher) PublishPhotoDeleted(ctx context.Context, photoID, ownerID string) error {
	event := NewPhotoDeletedEvent(photoID, ownerID)
	return p.publishEvent(ctx, string(EventTypePhotoDeleted), event)
}

// PublishAlbumCreated publishes an album created event
func (p *EventPublisher) PublishAlbumCreated(ctx context.Context, albumID, ownerID, name string) error {
	event := NewAlbumCreatedEvent(albumID, ownerID, name)
	return p.publishEvent(ctx, string(EventTypeAlbumCreated), event)
}

// PublishAlbumDeleted publishes an album deleted event
func (p *EventPublisher) PublishAlbumDeleted(ctx context.Context, albumID string) error {
	event := NewAlbumDeletedEvent(albumID)
	return p.publishEvent(ctx, string(EventTypeAlbumDeleted), event)
}

// PublishCommentCreated publishes a comment created event
func (p *EventPublisher) PublishCommentCreated(ctx context.Context, commentID, photoID, authorID string) error {
	event := NewCommentCreatedEvent(commentID, photoID, authorID)
	return p.publishEvent(ctx, string(EventTypeCommentCreated), event)
}

// PublishUserRegistered publishes a member registration event
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, userID, email, displayName, relation string) error {
	event := NewUserRegisteredEvent(userID, email, displayName, relation)
	return p.publishEvent(ctx, string(EventTypeUserRegistered), event)
}

// Close closes the connection to RabbitMQ
func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}
