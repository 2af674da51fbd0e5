package payment

// Intent is what the user asked to pay. Amount is forwarded as entered, NaN included.
type Intent struct {
	Amount float64
	Token  Token
}

// Reference identifies one payment attempt on the backend.
type Reference string

type TokenAmount struct {
	Symbol      Token  `json:"symbol"`
	TokenAmount string `json:"token_amount"`
}

// PayCommand is the request handed to the wallet runtime.
type PayCommand struct {
	Reference   Reference     `json:"reference"`
	To          string        `json:"to"`
	Tokens      []TokenAmount `json:"tokens"`
	Description string        `json:"description"`
}

// NewPayCommand builds a single-token command for intent.
func NewPayCommand(ref Reference, to, description string, intent Intent) (PayCommand, error) {
	amount, err := ToDecimals(intent.Amount, intent.Token)
	if err != nil {
		return PayCommand{}, err
	}
	return PayCommand{
		Reference: ref,
		To:        to,
		Tokens: []TokenAmount{
			{Symbol: intent.Token, TokenAmount: amount},
		},
		Description: description,
	}, nil
}
