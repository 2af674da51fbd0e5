package payment

import (
	"context"
	"errors"
	"math"
	"testing"

	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	ref   dompay.Reference
	err   error
	calls int
}

func (f *fakeIssuer) InitiatePayment(context.Context) (dompay.Reference, error) {
	f.calls++
	return f.ref, f.err
}

type fakeWallet struct {
	available bool
	payload   string
	err       error
	nilResult bool
	got       []dompay.PayCommand
}

func (f *fakeWallet) IsAvailable() bool { return f.available }

func (f *fakeWallet) Pay(_ context.Context, cmd dompay.PayCommand) (*dompay.Result, error) {
	f.got = append(f.got, cmd)
	if f.err != nil {
		return nil, f.err
	}
	if f.nilResult {
		return nil, nil
	}
	p, err := dompay.ParsePayload([]byte(f.payload))
	if err != nil {
		return nil, err
	}
	return &dompay.Result{FinalPayload: p}, nil
}

func TestSendPayment_Success(t *testing.T) {
	issuer := &fakeIssuer{ref: "abc123"}
	wallet := &fakeWallet{available: true, payload: `{"status":"success","reference":"abc123"}`}
	uc := NewSendPaymentUseCase(issuer, wallet, Options{}, nil)

	res, err := uc.Execute(context.Background(), SendPaymentInput{Amount: 1.5, Token: dompay.TokenUSDCE})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.FinalPayload.Succeeded())

	require.Len(t, wallet.got, 1)
	cmd := wallet.got[0]
	assert.Equal(t, dompay.Reference("abc123"), cmd.Reference)
	assert.Equal(t, DefaultDestination, cmd.To)
	assert.Equal(t, DefaultDescription, cmd.Description)
	assert.Equal(t, []dompay.TokenAmount{{Symbol: dompay.TokenUSDCE, TokenAmount: "1500000"}}, cmd.Tokens)
}

func TestSendPayment_CustomOptions(t *testing.T) {
	wallet := &fakeWallet{available: true, payload: `{"status":"success"}`}
	uc := NewSendPaymentUseCase(&fakeIssuer{ref: "r"}, wallet, Options{To: "0xabc", Description: "shop"}, nil)

	_, err := uc.Execute(context.Background(), SendPaymentInput{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", wallet.got[0].To)
	assert.Equal(t, "shop", wallet.got[0].Description)
}

func TestSendPayment_NonSuccessStatusIsReturned(t *testing.T) {
	wallet := &fakeWallet{available: true, payload: `{"status":"error","error_code":"user_rejected"}`}
	uc := NewSendPaymentUseCase(&fakeIssuer{ref: "abc123"}, wallet, Options{}, nil)

	res, err := uc.Execute(context.Background(), SendPaymentInput{Amount: 1, Token: dompay.TokenWLD})
	require.NoError(t, err)
	assert.Equal(t, dompay.StatusError, res.FinalPayload.Status())
}

func TestSendPayment_Failures(t *testing.T) {
	tests := []struct {
		name   string
		issuer *fakeIssuer
		wallet *fakeWallet
		amount float64
		kind   dompay.Kind
		paid   bool
	}{
		{
			name:   "reference request fails",
			issuer: &fakeIssuer{err: errors.New("connection refused")},
			wallet: &fakeWallet{available: true, payload: `{"status":"success"}`},
			amount: 1,
			kind:   dompay.KindNetwork,
		},
		{
			name:   "malformed reference response keeps its kind",
			issuer: &fakeIssuer{err: dompay.Wrap(dompay.KindMalformedResponse, "test", errors.New("no id"))},
			wallet: &fakeWallet{available: true, payload: `{"status":"success"}`},
			amount: 1,
			kind:   dompay.KindMalformedResponse,
		},
		{
			name:   "nan amount",
			issuer: &fakeIssuer{ref: "abc123"},
			wallet: &fakeWallet{available: true, payload: `{"status":"success"}`},
			amount: math.NaN(),
			kind:   dompay.KindInvalidAmount,
		},
		{
			name:   "wallet not installed",
			issuer: &fakeIssuer{ref: "abc123"},
			wallet: &fakeWallet{available: false},
			amount: 1,
			kind:   dompay.KindWalletUnavailable,
		},
		{
			name:   "wallet errors",
			issuer: &fakeIssuer{ref: "abc123"},
			wallet: &fakeWallet{available: true, err: errors.New("bridge closed")},
			amount: 1,
			kind:   dompay.KindWalletRejected,
			paid:   true,
		},
		{
			name:   "wallet returns nothing",
			issuer: &fakeIssuer{ref: "abc123"},
			wallet: &fakeWallet{available: true, nilResult: true},
			amount: 1,
			kind:   dompay.KindWalletRejected,
			paid:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewSendPaymentUseCase(tt.issuer, tt.wallet, Options{}, nil)

			res, err := uc.Execute(context.Background(), SendPaymentInput{Amount: tt.amount, Token: dompay.TokenWLD})
			assert.Nil(t, res)
			require.Error(t, err)
			assert.Equal(t, tt.kind, dompay.KindOf(err))
			assert.Equal(t, tt.paid, len(tt.wallet.got) > 0)
		})
	}
}

func TestSendPayment_WalletUnavailableMatchesSentinel(t *testing.T) {
	uc := NewSendPaymentUseCase(&fakeIssuer{ref: "abc123"}, &fakeWallet{}, Options{}, nil)
	_, err := uc.Execute(context.Background(), SendPaymentInput{Amount: 1, Token: dompay.TokenWLD})
	assert.ErrorIs(t, err, dompay.ErrWalletUnavailable)
}
