package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	raw := []byte(`{"status":"success","reference":"abc123","transaction_id":"tx-1","chain":"worldchain","extra":{"n":1}}`)

	p, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.True(t, p.Succeeded())
	assert.Equal(t, StatusSuccess, p.Status())
	assert.Equal(t, Reference("abc123"), p.Reference())
	assert.Equal(t, "tx-1", p.TransactionID())

	// unknown fields survive verbatim
	out, err := json.Marshal(struct {
		Payload Payload `json:"payload"`
	}{p})
	require.NoError(t, err)
	assert.JSONEq(t, `{"payload":`+string(raw)+`}`, string(out))
}

func TestParsePayloadRequiresStatus(t *testing.T) {
	_, err := ParsePayload([]byte(`{"reference":"abc123"}`))
	assert.Error(t, err)

	_, err = ParsePayload([]byte(`not json`))
	assert.Error(t, err)
}

func TestPayloadNotSuccess(t *testing.T) {
	p, err := ParsePayload([]byte(`{"status":"error","error_code":"user_rejected"}`))
	require.NoError(t, err)
	assert.False(t, p.Succeeded())
	assert.Equal(t, "user_rejected", p.ErrorCode())
}

func TestZeroPayloadMarshalsNull(t *testing.T) {
	var p Payload
	assert.True(t, p.IsZero())
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindNetwork, "backend.initiate_payment", cause)

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, KindNetwork, KindOf(err))

	// an already tagged error keeps its kind when wrapped again
	again := Wrap(KindWalletRejected, "payment.send", fmt.Errorf("outer: %w", err))
	assert.Equal(t, KindNetwork, KindOf(again))

	// untagged errors wrapping a sentinel still resolve
	assert.Equal(t, KindInvalidAmount, KindOf(fmt.Errorf("x: %w", ErrInvalidAmount)))
	assert.Equal(t, Kind(""), KindOf(errors.New("other")))
}
