package checkout

import (
	"context"
	"errors"
	"testing"

	apppay "github.com/Zhima-Mochi/minipay/internal/application/payment"
	"github.com/Zhima-Mochi/minipay/internal/domain/notification"
	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type stubWallet struct{ available bool }

func (s stubWallet) IsAvailable() bool { return s.available }

type stubSender struct {
	res   *dompay.Result
	err   error
	calls int
	got   apppay.SendPaymentInput
}

func (s *stubSender) Execute(_ context.Context, in apppay.SendPaymentInput) (*dompay.Result, error) {
	s.calls++
	s.got = in
	return s.res, s.err
}

type stubConfirmer struct {
	ok    bool
	err   error
	calls int
	got   dompay.Payload
}

func (s *stubConfirmer) ConfirmPayment(_ context.Context, p dompay.Payload) (bool, error) {
	s.calls++
	s.got = p
	return s.ok, s.err
}

func result(t *testing.T, raw string) *dompay.Result {
	t.Helper()
	p, err := dompay.ParsePayload([]byte(raw))
	require.NoError(t, err)
	return &dompay.Result{FinalPayload: p}
}

// --- tests ---

func TestCheckout_WalletNotInstalled(t *testing.T) {
	sender := &stubSender{}
	confirmer := &stubConfirmer{}
	rec := &notify.Recorder{}
	uc := NewCheckoutUseCase(stubWallet{available: false}, sender, confirmer, rec, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, StateWalletMissing, out.State)
	assert.Zero(t, sender.calls)
	assert.Zero(t, confirmer.calls)
	assert.Equal(t, []notification.Notification{notification.WalletNotInstalled}, rec.All())
}

func TestCheckout_NonSuccessStatusIsIgnored(t *testing.T) {
	sender := &stubSender{res: result(t, `{"status":"error","reference":"abc123"}`)}
	confirmer := &stubConfirmer{ok: true}
	rec := &notify.Recorder{}
	uc := NewCheckoutUseCase(stubWallet{available: true}, sender, confirmer, rec, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, StateIgnored, out.State)
	assert.Nil(t, out.Notification)
	assert.Zero(t, confirmer.calls)
	assert.Empty(t, rec.All())
}

func TestCheckout_Confirmed(t *testing.T) {
	raw := `{"status":"success","reference":"abc123","transaction_id":"tx-1"}`
	sender := &stubSender{res: result(t, raw)}
	confirmer := &stubConfirmer{ok: true}
	rec := &notify.Recorder{}
	uc := NewCheckoutUseCase(stubWallet{available: true}, sender, confirmer, rec, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{Amount: 2, Token: dompay.TokenUSDCE})
	require.NoError(t, err)
	assert.True(t, out.Succeeded())
	assert.Equal(t, apppay.SendPaymentInput{Amount: 2, Token: dompay.TokenUSDCE}, sender.got)
	assert.Equal(t, 1, confirmer.calls)
	assert.JSONEq(t, raw, string(confirmer.got.Raw()))
	assert.Equal(t, []notification.Notification{notification.PaymentSucceeded}, rec.All())
}

func TestCheckout_ConfirmationRejected(t *testing.T) {
	sender := &stubSender{res: result(t, `{"status":"success","reference":"abc123"}`)}
	rec := &notify.Recorder{}
	uc := NewCheckoutUseCase(stubWallet{available: true}, sender, &stubConfirmer{ok: false}, rec, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, []notification.Notification{notification.ConfirmFailed}, rec.All())
	assert.NotEqual(t, notification.SendFailed, notification.ConfirmFailed)
}

func TestCheckout_ConfirmationCallFails(t *testing.T) {
	sender := &stubSender{res: result(t, `{"status":"success","reference":"abc123"}`)}
	confirmer := &stubConfirmer{err: dompay.Wrap(dompay.KindNetwork, "test", errors.New("timeout"))}
	rec := &notify.Recorder{}
	uc := NewCheckoutUseCase(stubWallet{available: true}, sender, confirmer, rec, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, out.State)
	assert.ErrorIs(t, out.Err, dompay.ErrNetwork)
	assert.Equal(t, []notification.Notification{notification.ConfirmFailed}, rec.All())
}

func TestCheckout_SendFails(t *testing.T) {
	sendErr := dompay.Wrap(dompay.KindNetwork, "test", errors.New("connection refused"))
	sender := &stubSender{err: sendErr}
	confirmer := &stubConfirmer{}
	rec := &notify.Recorder{}
	uc := NewCheckoutUseCase(stubWallet{available: true}, sender, confirmer, rec, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, out.State)
	assert.ErrorIs(t, out.Err, sendErr)
	assert.Zero(t, confirmer.calls)
	assert.Equal(t, []notification.Notification{notification.SendFailed}, rec.All())
}

func TestCheckout_NilResultWithoutError(t *testing.T) {
	rec := &notify.Recorder{}
	uc := NewCheckoutUseCase(stubWallet{available: true}, &stubSender{}, &stubConfirmer{}, rec, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, []notification.Notification{notification.SendFailed}, rec.All())
}

func TestCheckout_NilNotifierIsTolerated(t *testing.T) {
	uc := NewCheckoutUseCase(stubWallet{}, &stubSender{}, &stubConfirmer{}, nil, nil)

	out, err := uc.Execute(context.Background(), dompay.Intent{})
	require.NoError(t, err)
	require.NotNil(t, out.Notification)
	assert.Equal(t, notification.WalletNotInstalled, *out.Notification)
}
