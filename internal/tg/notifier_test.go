package tg

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suke199800/tree/internal/models"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func school() models.School {
	return models.School{
		ID:              3,
		PraisePoints:    25,
		TreeGrowthStage: 2,
		Extra:           map[string]json.RawMessage{"학교명": json.RawMessage(`"한빛초등학교"`)},
	}
}

func TestNotifyStageUp(t *testing.T) {
	f := &fakeSender{}
	n := NewNotifier(f, 42, nil)

	require.NoError(t, n.NotifyStageUp(context.Background(), school(), 1))
	require.Len(t, f.sent, 1)

	msg, ok := f.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "한빛초등학교")
	assert.Contains(t, msg.Text, "Seed → Sprout")
	assert.Contains(t, msg.Text, "25 points")
}

func TestNotifyStageUp_Errors(t *testing.T) {
	f := &fakeSender{err: errors.New("Bad Request: chat not found")}
	n := NewNotifier(f, 1, nil)
	require.Error(t, n.NotifyStageUp(context.Background(), school(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f2 := &fakeSender{}
	require.ErrorIs(t, NewNotifier(f2, 1, nil).NotifyStageUp(ctx, school(), 1), context.Canceled)
	assert.Empty(t, f2.sent)
}

func TestIsSystemErr(t *testing.T) {
	assert.False(t, isSystemErr(nil))
	assert.True(t, isSystemErr(errors.New("Too Many Requests: 429")))
	assert.True(t, isSystemErr(errors.New("i/o timeout")))
	assert.False(t, isSystemErr(errors.New("Bad Request: message is not modified")))
}
