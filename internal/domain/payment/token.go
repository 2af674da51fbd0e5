package payment

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Token is a symbol the wallet can pay with.
type Token string

const (
	TokenWLD   Token = "WLD"
	TokenUSDCE Token = "USDCE"
)

// Select-control values shown to the user.
const (
	SelectionWLD  = "WLD"
	SelectionUSDC = "USDC"
)

var tokenDecimals = map[Token]int{
	TokenWLD:   18,
	TokenUSDCE: 6,
}

// TokenFromSelection maps a select value to a Token. Anything but "USDC" is WLD.
func TokenFromSelection(value string) Token {
	if value == SelectionUSDC {
		return TokenUSDCE
	}
	return TokenWLD
}

// Selection is the inverse of TokenFromSelection.
func (t Token) Selection() string {
	if t == TokenUSDCE {
		return SelectionUSDC
	}
	return SelectionWLD
}

// Decimals reports the number of fractional digits of the token's smallest unit.
func (t Token) Decimals() (int, bool) {
	d, ok := tokenDecimals[t]
	return d, ok
}

func (t Token) Valid() bool {
	_, ok := tokenDecimals[t]
	return ok
}

// ToDecimals converts a human amount into the token's smallest unit, as a base-10 integer.
// The float is taken at its shortest decimal form, so 1.1 USDCE is exactly "1100000".
func ToDecimals(amount float64, token Token) (string, error) {
	decimals, ok := token.Decimals()
	if !ok {
		return "", fmt.Errorf("%w: unknown token %q", ErrInvalidAmount, string(token))
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("%w: %v is not a finite number", ErrInvalidAmount, amount)
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(amount, 'f', -1, 64))
	if !ok {
		return "", fmt.Errorf("%w: cannot represent %v", ErrInvalidAmount, amount)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	if !r.IsInt() {
		return "", fmt.Errorf("%w: %v %s has more than %d decimals", ErrInvalidAmount, amount, token, decimals)
	}
	return r.Num().String(), nil
}
