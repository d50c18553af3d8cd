package services

import (
	"context"
	"law_office_app_go/models"
	"strings"
	"testing"
	"time"

	"law_office_app_go/services/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_SendAndList(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	c := seedCase(t, db, office.ID, "55001")
	broker := realtime.NewLocalBroker()
	defer broker.Close()
	svc := NewChatService(db, broker)

	events := make(chan realtime.MessageEvent, 4)
	sub := broker.Subscribe(c.ID, func(ev realtime.MessageEvent) { events <- ev })
	defer sub.Unsubscribe()

	ctx := context.Background()
	first, err := svc.SendMessage(ctx, office.ID, c.ID, models.SenderClient, "Hello, any news?")
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, first.ID, ev.ID)
		assert.Equal(t, c.ID, ev.CaseID)
	case <-time.After(time.Second):
		t.Fatal("no insert notification")
	}

	_, err = svc.ForOffice(office.ID).SendMessage(ctx, c.ID, models.SenderLawyer, "We filed yesterday")
	require.NoError(t, err)

	msgs, err := svc.ForOffice(office.ID).ListMessages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderClient, msgs[0].Sender)
	assert.Equal(t, "We filed yesterday", msgs[1].Body)
}

func TestChatService_KeepsTextAsTyped(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	c := seedCase(t, db, office.ID, "55001")
	svc := NewChatService(db, nil)
	ctx := context.Background()

	bodies := []string{"x<y and y>z", "send <tomorrow> the docs", "<b></b>"}
	for _, body := range bodies {
		_, err := svc.SendMessage(ctx, office.ID, c.ID, models.SenderLawyer, body)
		require.NoError(t, err, body)
	}

	msgs, err := svc.ListMessages(ctx, office.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, len(bodies))
	got := make([]string, len(msgs))
	for i, m := range msgs {
		got[i] = m.Body
	}
	assert.ElementsMatch(t, bodies, got)
}

func TestChatService_Validation(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	other := seedOffice(t, db, "Other")
	c := seedCase(t, db, office.ID, "55001")
	svc := NewChatService(db, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, office.ID, c.ID, "bot", "hi")
	assert.ErrorIs(t, err, ErrInvalidSender)

	_, err = svc.SendMessage(ctx, office.ID, c.ID, models.SenderLawyer, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SendMessage(ctx, office.ID, c.ID, models.SenderLawyer, strings.Repeat("א", MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	_, err = svc.SendMessage(ctx, other.ID, c.ID, models.SenderLawyer, "hi")
	assert.ErrorIs(t, err, ErrCaseNotFound)

	_, err = svc.ListMessages(ctx, other.ID, c.ID)
	assert.ErrorIs(t, err, ErrCaseNotFound)

	var count int64
	db.Model(&models.ChatMessage{}).Count(&count)
	assert.Zero(t, count)
}

func TestListConversationsAndActivity(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	quiet := seedCase(t, db, office.ID, "55001")
	a := seedCase(t, db, office.ID, "55002")
	b := seedCase(t, db, office.ID, "55003")

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	add := func(caseID, sender string, minutes int) {
		require.NoError(t, db.Create(&models.ChatMessage{
			CaseID: caseID, Sender: sender, Body: "m", SentAt: base.Add(time.Duration(minutes) * time.Minute),
		}).Error)
	}
	for i := 0; i < 5; i++ {
		add(a.ID, models.SenderClient, i)
	}
	add(b.ID, models.SenderLawyer, 10)

	convs, err := ListConversations(db, office.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, b.ID, convs[0].Case.ID)
	assert.Equal(t, 5, convs[1].MessageCount)
	assert.Equal(t, 5, convs[1].ClientCount)
	assert.Len(t, convs[1].Recent, 3)
	for _, conv := range convs {
		assert.NotEqual(t, quiet.ID, conv.Case.ID)
	}

	items := RecentActivity(convs)
	require.Len(t, items, 4)
	assert.Equal(t, b.ID, items[0].CaseID)
	assert.True(t, items[1].Message.SentAt.After(items[2].Message.SentAt))
}
