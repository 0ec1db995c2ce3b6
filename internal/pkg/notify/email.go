package notify

import (
	"context"
	"errors"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/email"
)

// UserDirectory resolves recipients to addresses.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// EmailSink mails every recipient of a notification.
type EmailSink struct {
	sender email.Sender
	users  UserDirectory
}

func NewEmailSink(sender email.Sender, users UserDirectory) *EmailSink {
	return &EmailSink{sender: sender, users: users}
}

func (s *EmailSink) Notify(ctx context.Context, n Notification) error {
	seen := make(map[int64]bool)
	var to []email.Address
	add := func(u *models.User) {
		if u == nil || seen[u.ID] || !u.IsActive {
			return
		}
		seen[u.ID] = true
		to = append(to, email.Address{Name: u.FullName(), Email: u.Email})
	}

	var errs []error
	for _, id := range n.Recipients {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		add(u)
	}
	if n.NotifyAdmins {
		admins, err := s.users.ListByRole(ctx, models.RoleAdmin)
		if err != nil {
			errs = append(errs, err)
		}
		for _, a := range admins {
			add(a)
		}
	}

	if len(to) > 0 {
		if err := s.sender.Send(ctx, email.Message{To: to, Subject: n.Title, Text: n.Message}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
