package form

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/Zhima-Mochi/minipay/internal/application"
	"github.com/Zhima-Mochi/minipay/internal/application/checkout"
	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
)

// Submitter is what the pay button triggers.
type Submitter = application.UseCase[dompay.Intent, *checkout.Outcome]

// Form holds the two controlled inputs of the payment form.
type Form struct {
	mu     sync.RWMutex
	amount float64
	token  dompay.Token
	submit Submitter
}

// New returns a form in its initial state: amount 0, token WLD.
func New(submit Submitter) *Form {
	return &Form{token: dompay.TokenWLD, submit: submit}
}

// SetAmountText parses the amount input. Text that is not a number stores NaN.
func (f *Form) SetAmountText(text string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		v = math.NaN()
	}
	f.SetAmount(v)
}

func (f *Form) SetAmount(v float64) {
	f.mu.Lock()
	f.amount = v
	f.mu.Unlock()
}

// SetTokenSelection applies the select value: "USDC" picks USDCE, anything else WLD.
func (f *Form) SetTokenSelection(value string) {
	f.mu.Lock()
	f.token = dompay.TokenFromSelection(value)
	f.mu.Unlock()
}

// TokenSelection is the value the select control displays.
func (f *Form) TokenSelection() string {
	return f.Intent().Token.Selection()
}

func (f *Form) Intent() dompay.Intent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return dompay.Intent{Amount: f.amount, Token: f.token}
}

// Submit is the pay button. Concurrent submits are not coalesced.
func (f *Form) Submit(ctx context.Context) (*checkout.Outcome, error) {
	return f.submit.Execute(ctx, f.Intent())
}
