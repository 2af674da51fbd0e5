package payment

import (
	"encoding/json"
	"fmt"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Payload is the wallet's final response. The raw bytes are kept so the
// confirmation call forwards exactly what the wallet produced.
type Payload struct {
	raw    json.RawMessage
	fields payloadFields
}

type payloadFields struct {
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	TransactionID string `json:"transaction_id"`
	ErrorCode     string `json:"error_code"`
}

// ParsePayload decodes raw wallet output. The status field is required.
func ParsePayload(raw []byte) (Payload, error) {
	var f payloadFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return Payload{}, fmt.Errorf("payment: decode wallet payload: %w", err)
	}
	if f.Status == "" {
		return Payload{}, fmt.Errorf("payment: wallet payload has no status")
	}
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return Payload{raw: cp, fields: f}, nil
}

func (p Payload) Status() string        { return p.fields.Status }
func (p Payload) Reference() Reference  { return Reference(p.fields.Reference) }
func (p Payload) TransactionID() string { return p.fields.TransactionID }
func (p Payload) ErrorCode() string     { return p.fields.ErrorCode }
func (p Payload) Succeeded() bool       { return p.fields.Status == StatusSuccess }
func (p Payload) IsZero() bool          { return len(p.raw) == 0 }

// Raw returns the payload bytes as received from the wallet.
func (p Payload) Raw() json.RawMessage { return p.raw }

func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	parsed, err := ParsePayload(b)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Result is what the wallet's pay command resolves to.
type Result struct {
	FinalPayload Payload
}
