package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sushihentaime/bloggingapp/internal/common"
	"golang.org/x/exp/rand"
)

const (
	welcomeTemplate = "welcome_email.html"
	commentTemplate = "comment_notification.html"

	defaultRetries   = 5
	defaultBaseDelay = 500 * time.Millisecond
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) *MailService {
	return newMailService(mb, NewMailer(host, port, username, password, sender, NewTemplate()), logger)
}

func newMailService(mb common.MessageConsumer, m Mailer, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         m,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		retries:   defaultRetries,
		baseDelay: defaultBaseDelay,
	}
}

// Start consumes both queues in the background until Close is called.
func (s *MailService) Start() error {
	if err := s.SendWelcomeEmails(); err != nil {
		return err
	}

	return s.SendCommentNotifications()
}

// SendWelcomeEmails greets every newly registered user that gave an email address.
func (s *MailService) SendWelcomeEmails() error {
	return s.consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue, func(body []byte) (string, any, string, error) {
		var event common.UserCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return "", nil, "", err
		}

		return event.Email, welcomeData{Username: event.Username}, welcomeTemplate, nil
	})
}

// SendCommentNotifications tells blog authors about new comments.
func (s *MailService) SendCommentNotifications() error {
	return s.consume(common.CommentCreatedKey, common.BlogExchange, common.CommentCreatedQueue, func(body []byte) (string, any, string, error) {
		var event common.CommentCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return "", nil, "", err
		}

		data := commentData{
			Commenter: event.Commenter,
			BlogTitle: event.BlogTitle,
			Text:      event.Text,
		}

		return event.AuthorEmail, data, commentTemplate, nil
	})
}

// decodeFunc turns a message body into a recipient, template data and template name.
type decodeFunc func(body []byte) (string, any, string, error)

func (s *MailService) consume(key common.BindingKey, exchange common.Exchange, queue common.Queue, decode decodeFunc) error {
	msgs, err := s.mb.Consume(key, exchange, queue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("queue", string(queue)), slog.String("error", err.Error()))
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				s.handle(msg, decode)

			case <-s.ctx.Done():
				s.logger.Info("stopping consumer due to context cancellation", slog.String("queue", string(queue)))
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handle(msg amqp.Delivery, decode decodeFunc) {
	recipient, data, templateFile, err := decode(msg.Body)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		msg.Nack(false, false)
		return
	}

	if recipient == "" {
		msg.Ack(false)
		return
	}

	if err := s.sendWithRetry(recipient, data, templateFile); err != nil {
		s.logger.Error("could not send email", slog.String("email", recipient), slog.String("template", templateFile), slog.String("error", err.Error()))
	}

	msg.Ack(false)
}

// sendWithRetry uses exponential backoff with jitter.
func (s *MailService) sendWithRetry(recipient string, data any, templateFile string) error {
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		err = s.m.send(recipient, data, templateFile)
		if err == nil {
			s.logger.Info("email sent", slog.String("email", recipient), slog.String("template", templateFile))
			return nil
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying email", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

// Close stops the consumers and waits for in-flight messages.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
