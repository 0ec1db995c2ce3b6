package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/email"
)

type recorder struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return nil
}

func TestDispatcherDeliversToEverySinkInOrder(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	failing := NotifierFunc(func(context.Context, Notification) error { return errors.New("down") })

	d := NewDispatcher(8, a, failing)
	d.AddSink(b)
	d.Start()
	d.Publish(Notification{Event: "approve", EntityID: 1})
	d.Publish(Notification{Event: "assign", EntityID: 1})
	d.Close()

	require.Len(t, a.got, 2)
	require.Len(t, b.got, 2)
	assert.Equal(t, "approve", a.got[0].Event)
	assert.Equal(t, "assign", a.got[1].Event)
	assert.False(t, a.got[0].OccurredAt.IsZero())
}

func TestDispatcherIgnoresPublishAfterClose(t *testing.T) {
	r := &recorder{}
	d := NewDispatcher(4, r)
	d.Start()
	d.Publish(Notification{Event: "approve"})
	d.Close()

	assert.NotPanics(t, func() { d.Publish(Notification{Event: "late"}) })
	assert.NotPanics(t, d.Close)
	require.Len(t, r.got, 1)
	assert.Equal(t, "approve", r.got[0].Event)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	r := &recorder{}
	d := NewDispatcher(1, r)
	d.Publish(Notification{Event: "one"})
	d.Publish(Notification{Event: "two"})
	d.Start()
	d.Close()

	require.Len(t, r.got, 1)
	assert.Equal(t, "one", r.got[0].Event)
}

type mailbox struct{ sent []email.Message }

func (m *mailbox) Send(_ context.Context, msg email.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type directory map[int64]*models.User

func (d directory) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (d directory) ListByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	var out []*models.User
	for _, u := range d {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestEmailSinkResolvesRecipients(t *testing.T) {
	users := directory{
		1: {ID: 1, Email: "admin@x.dz", Role: models.RoleAdmin, IsActive: true},
		2: {ID: 2, Email: "s@x.dz", Role: models.RoleStudent, IsActive: true, FirstName: "Sara"},
	}
	box := &mailbox{}
	sink := NewEmailSink(box, users)

	err := sink.Notify(context.Background(), Notification{
		Title: "Documents submitted", Recipients: []int64{2, 1, 99}, NotifyAdmins: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	require.Len(t, box.sent, 1)
	assert.Len(t, box.sent[0].To, 2)
	assert.Equal(t, "Documents submitted", box.sent[0].Subject)
}
