package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"text/template"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vigilia/patrol-ops/internal/config"
	"github.com/vigilia/patrol-ops/internal/domain"
	"github.com/wneessen/go-mail"
)

var noticeTemplates = map[domain.NoticeEvent]struct {
	subject string
	body    string
}{
	domain.EventShiftCreated: {
		subject: "Patrol Ops - Shift assigned",
		body: `Hello {{.FullName}},

a new shift has been assigned to you:

  {{.Label}}
  from {{.StartTime.Format "Mon 02 Jan 2006 15:04"}}
  to   {{.EndTime.Format "Mon 02 Jan 2006 15:04"}}

Check the scheduling board for details.
`,
	},
	domain.EventShiftDeleted: {
		subject: "Patrol Ops - Shift removed",
		body: `Hello {{.FullName}},

the following assignment has been removed from your schedule:

  {{.Label}}
  from {{.StartTime.Format "Mon 02 Jan 2006 15:04"}}
  to   {{.EndTime.Format "Mon 02 Jan 2006 15:04"}}

Check the scheduling board for details.
`,
	},
	domain.EventAccountCreated: {
		subject: "Patrol Ops - Account created",
		body: `Hello {{.FullName}},

an account has been created for you.

  username: {{.Username}}
  password: {{.Password}}

Please change the password after your first login.
`,
	},
	domain.EventPasswordReset: {
		subject: "Patrol Ops - Password reset",
		body: `Hello {{.FullName}},

your password reset verification code is {{.OTP}}.
It expires in {{.Expiration}} minutes.
`,
	},
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("cannot create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("cannot connect to the mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("cannot connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("cannot open a channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,  // durable
		false, // autoDelete off so the queue survives having no consumer
		false, // not exclusive
		false, // wait for the broker to confirm the declare
		nil,
	)
	if err != nil {
		logger.Error("cannot declare the queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // let the broker pick a consumer tag
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("cannot consume messages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("message received", slog.String("message", string(msg.Body)))

				message := domain.Message{}
				if err := json.Unmarshal(msg.Body, &message); err != nil {
					logger.Error("cannot decode message envelope", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				if message.Type != domain.TypeNotification {
					// other envelope types are for the realtime consoles
					logger.Info("ignoring non-notification message", slog.String("type", string(message.Type)))
					_ = msg.Ack(false)
					continue
				}

				payload := domain.NoticePayload{}
				if err := json.Unmarshal(message.Payload, &payload); err != nil {
					logger.Error("cannot decode notification payload", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				tmpl, ok := noticeTemplates[payload.Event]
				if !ok {
					logger.Error("unsupported notification event", slog.String("event", string(payload.Event)))
					_ = msg.Nack(false, false)
					continue
				}

				m := mail.NewMsg()
				if err := m.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("cannot set mail sender", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(payload.To); err != nil {
					logger.Error("cannot set mail recipient", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				body, err := template.New(string(payload.Event)).Parse(tmpl.body)
				if err != nil {
					logger.Error("cannot parse mail template", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				sb := &strings.Builder{}
				if err := body.Execute(sb, payload); err != nil {
					logger.Error("cannot render mail body", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				m.Subject(tmpl.subject)
				m.SetBodyString(mail.TypeTextPlain, sb.String())

				if err := client.DialAndSend(m); err != nil {
					logger.Error("cannot send mail", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for messages... (CTRL+C to quit)")
	<-sigChan

	slog.Info("shutting down notifier...")
	cancel()
	wg.Wait()
	slog.Info("notifier stopped")
}
