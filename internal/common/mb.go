package common

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	UserExchange     Exchange   = "user_exchange"
	UserCreatedQueue Queue      = "user_created_queue"
	UserCreatedKey   BindingKey = "user.created"

	BlogExchange        Exchange   = "blog_exchange"
	CommentCreatedQueue Queue      = "comment_created_queue"
	CommentCreatedKey   BindingKey = "comment.created"
)

// UserCreatedEvent is published after a successful registration.
type UserCreatedEvent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CommentCreatedEvent is published after a comment is stored. AuthorEmail is the blog author's address.
type CommentCreatedEvent struct {
	CommentID   int64  `json:"comment_id"`
	BlogID      int64  `json:"blog_id"`
	BlogTitle   string `json:"blog_title"`
	AuthorEmail string `json:"author_email"`
	Commenter   string `json:"commenter"`
	Text        string `json:"text"`
}

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	err = mb.conn.Close()
	if err != nil {
		return err
	}

	return nil
}

func (mb *MessageBroker) declare(exchange Exchange, queue Queue, key BindingKey) error {
	err := mb.ch.ExchangeDeclare(string(exchange), "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = mb.ch.QueueDeclare(string(queue), true, false, false, false, nil)
	if err != nil {
		return err
	}

	return mb.ch.QueueBind(string(queue), string(key), string(exchange), false, nil)
}

func SetupUserExchange(mb *MessageBroker) error {
	return mb.declare(UserExchange, UserCreatedQueue, UserCreatedKey)
}

func SetupBlogExchange(mb *MessageBroker) error {
	return mb.declare(BlogExchange, CommentCreatedQueue, CommentCreatedKey)
}

// SetupExchanges declares every exchange, queue and binding the application uses.
func SetupExchanges(mb *MessageBroker) error {
	if err := SetupUserExchange(mb); err != nil {
		return fmt.Errorf("could not setup user exchange: %w", err)
	}

	if err := SetupBlogExchange(mb); err != nil {
		return fmt.Errorf("could not setup blog exchange: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}

// PublishEvent marshals event as JSON and publishes it.
func PublishEvent(ctx context.Context, p MessageProducer, key BindingKey, exchange Exchange, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Publish(ctx, body, key, exchange)
}
