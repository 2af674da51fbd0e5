package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	appref "github.com/Zhima-Mochi/minipay/internal/application/reference"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/memory"
	httppresentation "github.com/Zhima-Mochi/minipay/internal/presentation/http"
	"github.com/stretchr/testify/assert"
)

func newBackend(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	repo := memory.NewReferenceRepository()
	router := httppresentation.NewHandler(
		appref.NewIssueReferenceUseCase(repo, id.NewUUIDGenerator(), nil),
		appref.NewConfirmPaymentUseCase(repo, nil),
		nil,
	).Router()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestRunEndToEnd(t *testing.T) {
	srv, hits := newBackend(t)
	var out bytes.Buffer

	code := run([]string{
		"--amount=1.5", "--token=USDC",
		"--backend.base_url=" + srv.URL,
		"--confirm.base_url=" + srv.URL,
		"--wallet.success_rate=1",
	}, &out)

	assert.Equal(t, 0, code)
	assert.Equal(t, "[default] Success: Payment sent successfully!\n", out.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestRunWalletDeclines(t *testing.T) {
	srv, hits := newBackend(t)
	var out bytes.Buffer

	code := run([]string{
		"--amount=1",
		"--backend.base_url=" + srv.URL,
		"--wallet.success_rate=0",
	}, &out)

	assert.Equal(t, 0, code)
	assert.Empty(t, out.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestRunWithoutWallet(t *testing.T) {
	srv, hits := newBackend(t)
	var out bytes.Buffer

	code := run([]string{
		"--amount=1",
		"--backend.base_url=" + srv.URL,
		"--wallet.mode=none",
	}, &out)

	assert.Equal(t, 1, code)
	assert.Equal(t, "[destructive] Error: MiniKit is not installed. Please open this application in World App.\n", out.String())
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestRunBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	var out bytes.Buffer

	code := run([]string{"--amount=1", "--backend.base_url=" + url}, &out)

	assert.Equal(t, 1, code)
	assert.Equal(t, "[destructive] Error: Failed to send payment\n", out.String())
}

func TestRunNotANumber(t *testing.T) {
	srv, _ := newBackend(t)
	var out bytes.Buffer

	code := run([]string{"--amount=abc", "--backend.base_url=" + srv.URL}, &out)

	assert.Equal(t, 1, code)
	assert.Equal(t, "[destructive] Error: Failed to send payment\n", out.String())
}
