package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// WinnerSummary — итоги недели для рассылки
type WinnerSummary struct {
	WeekKey    string
	Title      string
	TotalVotes int
	Places     []WinnerPlace
}

// WinnerPlace — одно призовое место в письме
type WinnerPlace struct {
	Place          int
	Text           string
	AuthorInitials string
	Votes          int
}

// EmailService рассылает итоги недели команде.
// Сбой рассылки никогда не валит фазовый переход — только логируется.
type EmailService interface {
	SendWeeklyResults(ctx context.Context, summary *WinnerSummary) error
}

// NoopEmailService используется, когда рассылка выключена
type NoopEmailService struct{}

func (s *NoopEmailService) SendWeeklyResults(ctx context.Context, summary *WinnerSummary) error {
	log.Printf("[EmailService] noop send weekly results week=%s", summary.WeekKey)
	return nil
}

// ResendEmailService отправляет письма через Resend REST API
type ResendEmailService struct {
	from       string
	recipients []string
	client     *resend.Client
}

// NewResendEmailService создает сервис рассылки через Resend
func NewResendEmailService(apiKey, from string, recipients []string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	return &ResendEmailService{
		from:       from,
		recipients: recipients,
		client:     resend.NewClient(apiKey),
	}, nil
}

// SendWeeklyResults отправляет письмо с топ-3 недели.
// Ключ идемпотентности — ключ недели: ретрай reveal не продублирует письмо.
func (s *ResendEmailService) SendWeeklyResults(ctx context.Context, summary *WinnerSummary) error {
	if summary == nil {
		return fmt.Errorf("summary is required")
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Итоги недели %s — %s\n\n", summary.WeekKey, summary.Title)
	if len(summary.Places) == 0 {
		text.WriteString("На этой неделе голосов не было.\n")
	}
	for _, p := range summary.Places {
		initials := p.AuthorInitials
		if initials == "" {
			initials = "AI"
		}
		fmt.Fprintf(&text, "%d место (%d): %s — %s\n", p.Place, p.Votes, p.Text, initials)
	}
	fmt.Fprintf(&text, "\nВсего голосов: %d\n", summary.TotalVotes)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      s.recipients,
		Subject: fmt.Sprintf("Итоги недели %s", summary.WeekKey),
		Text:    text.String(),
	}

	options := &resend.SendEmailOptions{
		IdempotencyKey: "weekly-results/" + summary.WeekKey,
	}

	if _, err := s.client.Emails.SendWithOptions(ctx, params, options); err != nil {
		return fmt.Errorf("failed to send weekly results email: %w", err)
	}
	return nil
}
