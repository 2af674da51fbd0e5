package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/Zhima-Mochi/minipay/internal/domain/notification"
	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, nil)

	c.Notify(context.Background(), notification.SendFailed)
	c.Notify(context.Background(), notification.PaymentSucceeded)

	assert.Equal(t,
		"[destructive] Error: Failed to send payment\n[default] Success: Payment sent successfully!\n",
		buf.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notify(context.Background(), notification.ConfirmFailed)
	assert.Equal(t, []notification.Notification{notification.ConfirmFailed}, r.All())
}
