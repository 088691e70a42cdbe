package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

var leadAssignedTmpl = template.Must(template.New("lead_assigned").Parse(
	`Olá {{.AgentName}},

Um novo lead foi atribuído a você: {{.LeadName}}{{if .Company}} ({{.Company}}){{end}}.

Acesse o painel para fazer o primeiro contato.

— CRM Ligue`))

var statusChangedTmpl = template.Must(template.New("status_changed").Parse(
	`Olá {{.AgentName}},

O lead {{.LeadName}} mudou de status: {{.Status}}.

— CRM Ligue`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "nao-responda@liguecrm.com"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendLeadAssigned(to, agentName, leadName, company string) error {
	var body bytes.Buffer
	err := leadAssignedTmpl.Execute(&body, LeadAssignedEmailData{
		AgentName: agentName,
		LeadName:  leadName,
		Company:   company,
	})
	if err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	return s.send(to, fmt.Sprintf("Novo lead para você: %s", leadName), body.String())
}

func (s *EmailSender) SendStatusChanged(to, agentName, leadName, status string) error {
	var body bytes.Buffer
	err := statusChangedTmpl.Execute(&body, StatusChangedEmailData{
		AgentName: agentName,
		LeadName:  leadName,
		Status:    status,
	})
	if err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	return s.send(to, fmt.Sprintf("Lead %s mudou para %s", leadName, status), body.String())
}

func (s *EmailSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
