package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolio/portal/internal/lib/password"
	"github.com/hostfolio/portal/internal/models"
)

func newState(t *testing.T) *State {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	return s
}

func TestState_SeededDemoUser(t *testing.T) {
	s := newState(t)
	ctx := context.Background()

	user, profile, hash, err := s.UserByEmail(ctx, DemoEmail)

	require.NoError(t, err)
	assert.Equal(t, DemoEmail, user.Email)
	assert.True(t, user.IsHost)
	require.NotNil(t, profile)
	assert.Equal(t, "Seaside Stays OÜ", profile.CompanyName)
	assert.NoError(t, password.CompareHash(hash, DemoPassword))
}

func TestState_UserByEmail_CaseInsensitive(t *testing.T) {
	s := newState(t)

	user, _, _, err := s.UserByEmail(context.Background(), "DEMO@HOSTFOLIO.IO")

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestState_UserByEmail_NotFound(t *testing.T) {
	s := newState(t)

	_, _, _, err := s.UserByEmail(context.Background(), "nobody@hostfolio.io")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestState_Notifications_NewestFirst(t *testing.T) {
	s := newState(t)

	list, err := s.Notifications(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.True(t, !list[i-1].CreatedAt.Before(list[i].CreatedAt),
			"notifications should be sorted newest first")
	}
}

func TestState_MarkReadDecreasesUnreadCount(t *testing.T) {
	s := newState(t)
	ctx := context.Background()

	before, err := s.UnreadCount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, before)

	require.NoError(t, s.MarkRead(ctx, 1, 3))

	after, err := s.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, after)
}

func TestState_MarkRead_UnknownNotification(t *testing.T) {
	s := newState(t)

	err := s.MarkRead(context.Background(), 1, 999)

	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestState_MarkAllRead(t *testing.T) {
	s := newState(t)
	ctx := context.Background()

	require.NoError(t, s.MarkAllRead(ctx, 1))

	count, err := s.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestState_ContractLifecycle(t *testing.T) {
	s := newState(t)
	ctx := context.Background()

	_, err := s.Contract(ctx, 1)
	require.ErrorIs(t, err, ErrContractNotFound)

	signed, err := s.SignContract(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ContractActive, signed.Status)
	assert.NotNil(t, signed.SignedAt)

	_, err = s.SignContract(ctx, 1)
	assert.ErrorIs(t, err, ErrContractSigned)

	cancelled, err := s.RequestCancellation(ctx, 1, "switching providers")
	require.NoError(t, err)
	assert.Equal(t, models.ContractCancellationRequested, cancelled.Status)
	require.NotNil(t, cancelled.ServiceEndDate)
	require.NotNil(t, cancelled.ReadOnlyAccessUntil)
	assert.True(t, cancelled.ReadOnlyAccessUntil.After(*cancelled.ServiceEndDate))
}

func TestState_ConversationFlow(t *testing.T) {
	s := newState(t)
	ctx := context.Background()

	detail, err := s.CreateConversation(ctx, 1, "OTA sync issue", "Airbnb calendar stopped syncing")
	require.NoError(t, err)
	assert.Equal(t, "open", detail.Status)
	require.Len(t, detail.Messages, 1)

	detail, err = s.SendMessage(ctx, 1, detail.ID, "It resolved itself, thanks")
	require.NoError(t, err)
	assert.Len(t, detail.Messages, 2)

	list, err := s.Conversations(ctx, 1, "open")
	require.NoError(t, err)
	assert.Len(t, list, 2) // seeded conversation plus the new one

	require.NoError(t, s.CloseConversation(ctx, 1, detail.ID))

	_, err = s.SendMessage(ctx, 1, detail.ID, "one more thing")
	assert.ErrorIs(t, err, ErrConversationClosed)

	closed, err := s.Conversations(ctx, 1, "closed")
	require.NoError(t, err)
	assert.Len(t, closed, 1)
}

func TestState_SetSubscriptionStatus(t *testing.T) {
	s := newState(t)
	ctx := context.Background()

	locked := models.SubscriptionStatus{
		Plan:         "professional",
		Status:       models.SubscriptionPastDue,
		PortalLocked: true,
	}
	s.SetSubscriptionStatus(ctx, 1, locked)

	snap, err := s.SubscriptionStatus(ctx, 1)
	require.NoError(t, err)
	assert.True(t, snap.PortalLocked)
	assert.Equal(t, models.SubscriptionPastDue, snap.Status)
}
