package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campushire/platform/internal/config"
	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/notify"
)

// NotificationService renders and sends mail for domain events. Every
// delivery outcome is informational: a failed send is logged and swallowed,
// never surfaced to the operation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	logger     *zap.Logger
	baseURL    string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notify.Mailer, logger *zap.Logger, cfg config.AppConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		baseURL:    cfg.PublicBaseURL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventVerificationResent, n.handleVerificationResent)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventApplicationSubmitted, n.handleApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationStatusChanged, n.handleApplicationStatusChanged)
	n.dispatcher.Subscribe(events.EventEventRegistered, n.handleEventRegistered)
}

func (n *NotificationService) handleAccountRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountRegisteredPayload)
	if !ok {
		return nil
	}
	link := fmt.Sprintf("%s/auth/verify?email=%s&token=%s", n.baseURL, payload.Email, payload.VerificationToken)
	body := fmt.Sprintf("Hi %s,\n\nWelcome to CampusHire! Confirm your email address:\n\n%s\n\nThe link expires at %s.",
		payload.Name, link, payload.TokenExpiresAt.Format("2006-01-02 15:04 MST"))
	n.send(payload.Email, "Confirm your email address", body)
	return nil
}

func (n *NotificationService) handleVerificationResent(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.VerificationResentPayload)
	if !ok {
		return nil
	}
	var body string
	if payload.IsOTP {
		body = fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires at %s.",
			payload.Name, payload.Token, payload.TokenExpiresAt.Format("15:04 MST"))
	} else {
		link := fmt.Sprintf("%s/auth/verify?email=%s&token=%s", n.baseURL, payload.Email, payload.Token)
		body = fmt.Sprintf("Hi %s,\n\nConfirm your email address:\n\n%s", payload.Name, link)
	}
	n.send(payload.Email, "Confirm your email address", body)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	link := fmt.Sprintf("%s/auth/password/reset?token=%s", n.baseURL, payload.Token)
	body := fmt.Sprintf("Hi %s,\n\nA password reset was requested for your account. Reset it here:\n\n%s\n\nThe link expires at %s. If you did not request this, ignore this message.",
		payload.Name, link, payload.TokenExpiresAt.Format("15:04 MST"))
	n.send(payload.Email, "Reset your password", body)
	return nil
}

func (n *NotificationService) handleApplicationSubmitted(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationSubmittedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\nYour application for %q was submitted.", payload.ApplicantName, payload.JobTitle)
	n.send(payload.ApplicantEmail, "Application received", body)
	return nil
}

func (n *NotificationService) handleApplicationStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationStatusChangedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\nYour application for %q moved from %s to %s.",
		payload.ApplicantName, payload.JobTitle, payload.OldStatus, payload.NewStatus)
	n.send(payload.ApplicantEmail, "Application update", body)
	return nil
}

func (n *NotificationService) handleEventRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EventRegisteredPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\nYou are registered for %q on %s.",
		payload.AttendeeName, payload.EventTitle, payload.StartsAt.Format("2006-01-02 15:04 MST"))
	n.send(payload.AttendeeEmail, "Registration confirmed", body)
	return nil
}

func (n *NotificationService) send(to, subject, body string) {
	if !n.mailer.Send(to, subject, body, false) {
		n.logger.Warn("notification delivery failed", zap.String("to", to), zap.String("subject", subject))
	}
}
