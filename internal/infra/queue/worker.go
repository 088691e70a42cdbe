package queue

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Interfaces estreitas para o worker não depender do pacote usecase.

type AgentDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type SettingsSource interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Settings, error)
}

type NotificationSender interface {
	SendLeadAssigned(to, agentName, leadName, company string) error
	SendStatusChanged(to, agentName, leadName, status string) error
}

// Worker consome eventos de lead e manda e-mail para o agente
// responsável, respeitando os flags de notificação dele.
type Worker struct {
	ch       *amqp.Channel
	agents   AgentDirectory
	settings SettingsSource
	mail     NotificationSender
	logger   zerolog.Logger
}

func NewWorker(ch *amqp.Channel, agents AgentDirectory, settings SettingsSource, mail NotificationSender, logger zerolog.Logger) *Worker {
	return &Worker{ch: ch, agents: agents, settings: settings, mail: mail, logger: logger}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		w.logger.Error().Err(err).Msg("worker: failed to start consuming")
		return
	}

	w.logger.Info().Str("queue", queueName).Msg("notification worker started")

	for msg := range msgs {
		if err := w.handle(msg.Body); err != nil {
			w.logger.Error().Err(err).Msg("worker: failed to process lead event")
			// Nack sem requeue: mensagem vai para a DLQ.
			msg.Nack(false, false)
			continue
		}
		msg.Ack(false)
	}
}

func (w *Worker) handle(body []byte) error {
	ctx := context.Background()

	var payload LeadEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return err
	}

	agent, err := w.agents.FindByID(ctx, payload.AgentID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			// Agente saiu no meio do caminho: nada a notificar.
			w.logger.Warn().Str("agent_id", payload.AgentID).Msg("worker: agent not found, dropping event")
			return nil
		}
		return err
	}

	if !w.wantsNotification(ctx, agent.ID, payload.Event) {
		return nil
	}

	switch payload.Event {
	case "lead.created":
		return w.mail.SendLeadAssigned(agent.Email, agent.Name, payload.LeadName, payload.Company)
	case "lead.status_changed":
		return w.mail.SendStatusChanged(agent.Email, agent.Name, payload.LeadName, payload.Status)
	default:
		w.logger.Warn().Str("event", payload.Event).Msg("worker: unknown event type, dropping")
		return nil
	}
}

func (w *Worker) wantsNotification(ctx context.Context, agentID, event string) bool {
	settings, err := w.settings.FindByUserID(ctx, agentID)
	if err != nil {
		// Sem settings = padrões do sistema, que notificam.
		return true
	}

	flag := "newLeads"
	if event == "lead.status_changed" {
		flag = "leadUpdates"
	}

	if enabled, ok := settings.Notifications[flag].(bool); ok {
		return enabled
	}
	return true
}
