package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
)

type mockMessageRepo struct {
	nextID   int64
	messages []models.Message
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockMessageRepo) ListConversation(ctx context.Context, userID, otherUserID int64) ([]models.Message, error) {
	var result []models.Message
	for _, msg := range m.messages {
		if (msg.SenderID == userID && msg.ReceiverID == otherUserID) ||
			(msg.SenderID == otherUserID && msg.ReceiverID == userID) {
			result = append(result, msg)
		}
	}
	return result, nil
}

func TestMessageServiceSend(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, nil, nil)

	msg, err := svc.Send(context.Background(), 5, models.SendMessageRequest{
		ReceiverID: 7,
		Message:    "Are you free Tuesday?",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), msg.SenderID)
	assert.Equal(t, int64(7), msg.ReceiverID)
	assert.NotZero(t, msg.ID)
}

func TestMessageServiceSendToSelf(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, nil, nil)

	_, err := svc.Send(context.Background(), 5, models.SendMessageRequest{
		ReceiverID: 5,
		Message:    "note to self",
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
	assert.Empty(t, repo.messages)
}

func TestMessageServiceConversationIsSymmetric(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, nil, nil)

	_, err := svc.Send(context.Background(), 5, models.SendMessageRequest{ReceiverID: 7, Message: "hi"})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 7, models.SendMessageRequest{ReceiverID: 5, Message: "hello"})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 5, models.SendMessageRequest{ReceiverID: 9, Message: "other thread"})
	require.NoError(t, err)

	asCaller, err := svc.Conversation(context.Background(), 5, 7)
	require.NoError(t, err)
	asOther, err := svc.Conversation(context.Background(), 7, 5)
	require.NoError(t, err)

	assert.Len(t, asCaller, 2)
	assert.Equal(t, asCaller, asOther)
}

func TestMessageServiceEmptyConversation(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, nil, nil)

	messages, err := svc.Conversation(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}
