package web

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/regnull/namereg/bc"
	"github.com/regnull/namereg/contract"
	"github.com/regnull/namereg/history"
	"github.com/regnull/namereg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invocation struct {
	op     bc.Operation
	name   string
	blocks uint64
}

type fakeBridge struct {
	session  bc.Session
	flash    *Flash
	fail     error
	starts   int
	invoked  []invocation
	record   contract.Record
	fee      *big.Int
	entries  []*history.Entry
	getError error
}

func (b *fakeBridge) Session() bc.Session {
	return b.session
}

func (b *fakeBridge) Start(ctx context.Context) error {
	b.starts++
	b.session.ConnectionFailed = false
	b.session.Account = "0x24fa5B1d7FBe98A9316101E311F0c409791EaA76"
	return nil
}

func (b *fakeBridge) Invoke(ctx context.Context, op bc.Operation, name string, blocks uint64) bc.Result {
	b.invoked = append(b.invoked, invocation{op, name, blocks})
	res := bc.Result{Operation: op, Name: name, Blocks: blocks, Fee: big.NewInt(0), Err: b.fail}
	if b.fail != nil {
		b.flash.Notify(bc.Notification{Kind: bc.Failure, Message: "Contract execution failed or rejected", Err: b.fail})
		return res
	}
	if op.Paid() {
		res.Fee = big.NewInt(42)
	}
	res.TxHash = common.HexToHash("0x01")
	b.flash.Notify(bc.Notification{Kind: bc.Success, Message: "Contract execution successful"})
	return res
}

func (b *fakeBridge) GetData(ctx context.Context, name string) (contract.Record, error) {
	if b.getError != nil {
		return contract.Record{}, b.getError
	}
	return b.record, nil
}

func (b *fakeBridge) Quote(ctx context.Context, blocks uint64) (*big.Int, error) {
	if b.getError != nil {
		return nil, b.getError
	}
	return new(big.Int).Mul(b.fee, new(big.Int).SetUint64(blocks)), nil
}

func (b *fakeBridge) History(limit int) ([]*history.Entry, error) {
	if limit < len(b.entries) {
		return b.entries[:limit], nil
	}
	return b.entries, nil
}

func newTestServer(t *testing.T) (*Server, *fakeBridge) {
	flash := NewFlash()
	b := &fakeBridge{
		session: bc.Session{
			Account:         "0x24fa5B1d7FBe98A9316101E311F0c409791EaA76",
			NetworkID:       "5777",
			ContractAddress: "0xcc8650c9cd8d99b62375c22f270a803e7abf0de9",
		},
		flash: flash,
		fee:   big.NewInt(1000000000000),
	}
	s, err := NewServer(b, flash, Options{Gatherer: prometheus.NewRegistry()})
	require.NoError(t, err)
	return s, b
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func postForm(h http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func Test_Index(t *testing.T) {
	assert := assert.New(t)

	s, _ := newTestServer(t)
	h := s.Handler()

	w := get(h, "/")
	assert.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(body, "Account: 0x24fa5B1d7FBe98A9316101E311F0c409791EaA76")
	assert.Contains(body, `<option value="register" selected>`)
	assert.Contains(body, `<div id="blocks-row">`)
	assert.NotContains(body, `id="connect"`)

	w = get(h, "/?operation=cancel")
	body = w.Body.String()
	assert.Contains(body, `<option value="cancel" selected>`)
	assert.Contains(body, `<div id="blocks-row" hidden>`)
}

func Test_Index_Loading(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	b.session = bc.Session{Loading: true}

	body := get(s.Handler(), "/").Body.String()
	assert.Contains(body, `id="loading"`)
	assert.NotContains(body, "operation-form")
}

func Test_Index_ConnectionFailed(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	b.session = bc.Session{ConnectionFailed: true}
	h := s.Handler()

	body := get(h, "/").Body.String()
	assert.Contains(body, `id="connect"`)
	assert.NotContains(body, "operation-form")

	w := postForm(h, "/connect", url.Values{})
	assert.Equal(http.StatusSeeOther, w.Code)
	assert.Equal(1, b.starts)

	body = get(h, "/").Body.String()
	assert.Contains(body, "operation-form")
}

func Test_Index_Alert(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	b.session = bc.Session{Account: "0x24fa5B1d7FBe98A9316101E311F0c409791EaA76", Alert: "The contract is not deployed to the detected network."}

	body := get(s.Handler(), "/").Body.String()
	assert.Contains(body, `<div class="alert" id="alert">The contract is not deployed to the detected network.</div>`)
}

func Test_Submit_Success(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	h := s.Handler()

	w := postForm(h, "/submit", url.Values{"operation": {"renew"}, "name": {"abc"}, "numBlocks": {"5"}})
	assert.Equal(http.StatusSeeOther, w.Code)
	assert.Equal([]invocation{{bc.OpRenew, "abc", 5}}, b.invoked)

	s.mu.Lock()
	form := s.form
	s.mu.Unlock()
	assert.Equal(Form{Operation: bc.OpRenew}, form)

	body := get(h, "/").Body.String()
	assert.Contains(body, `<div class="success">Contract execution successful</div>`)
	assert.Contains(body, `<option value="renew" selected>`)

	body = get(h, "/").Body.String()
	assert.NotContains(body, "Contract execution successful")
}

func Test_Submit_Failure(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	b.fail = bc.ErrRejected
	h := s.Handler()

	postForm(h, "/submit", url.Values{"operation": {"register"}, "name": {"abc"}, "numBlocks": {"5"}})

	s.mu.Lock()
	form := s.form
	s.mu.Unlock()
	assert.Equal(Form{Operation: bc.OpRegister, Name: "abc", Blocks: 5}, form)

	body := get(h, "/").Body.String()
	assert.Equal(1, strings.Count(body, `class="failure"`))
	assert.Contains(body, `value="abc"`)
}

func Test_Submit_CancelIgnoresBlocks(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	postForm(s.Handler(), "/submit", url.Values{"operation": {"cancel"}, "name": {"abc"}, "numBlocks": {"not-a-number"}})
	assert.Equal([]invocation{{bc.OpCancel, "abc", 0}}, b.invoked)
}

func Test_Submit_InvalidBlocks(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	h := s.Handler()
	postForm(h, "/submit", url.Values{"operation": {"register"}, "name": {"abc"}, "numBlocks": {"-1"}})
	assert.Empty(b.invoked)

	body := get(h, "/").Body.String()
	assert.Contains(body, "invalid number of blocks")
}

func Test_Submit_RateLimited(t *testing.T) {
	assert := assert.New(t)

	flash := NewFlash()
	b := &fakeBridge{session: bc.Session{Account: "0x01"}, flash: flash}
	s, err := NewServer(b, flash, Options{RateLimit: 1, Gatherer: prometheus.NewRegistry()})
	require.NoError(t, err)
	h := s.Handler()

	values := url.Values{"operation": {"cancel"}, "name": {"abc"}}
	postForm(h, "/submit", values)
	postForm(h, "/submit", values)
	assert.Len(b.invoked, 1)

	body := get(h, "/").Body.String()
	assert.Contains(body, "Too many requests")
}

func Test_API_Session(t *testing.T) {
	assert := assert.New(t)

	s, _ := newTestServer(t)
	w := get(s.Handler(), "/api/v1/session")
	assert.Equal(http.StatusOK, w.Code)

	var resp sessionResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(resp.Ready)
	assert.Equal("5777", resp.NetworkID)
}

func Test_API_Invoke(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	h := s.Handler()

	invoke := func(body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/invoke", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	w := invoke(`{"operation":"register","name":"abc","blocks":5}`)
	assert.Equal(http.StatusOK, w.Code)
	var resp InvokeResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(resp.OK)
	assert.Equal("42", resp.Fee)
	assert.NotEmpty(resp.TxHash)

	b.fail = errors.New("boom")
	w = invoke(`{"operation":"cancel","name":"abc"}`)
	assert.Equal(http.StatusOK, w.Code)
	resp = InvokeResponse{}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(resp.OK)
	assert.Equal("boom", resp.Error)

	w = invoke(`{"operation":"transfer","name":"abc"}`)
	assert.Equal(http.StatusBadRequest, w.Code)

	w = invoke(`not json`)
	assert.Equal(http.StatusBadRequest, w.Code)
	assert.Len(b.invoked, 2)
}

func Test_API_GetName(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	b.record = contract.Record{
		Owner:           common.HexToAddress("0x24fa5B1d7FBe98A9316101E311F0c409791EaA76"),
		ExpirationBlock: big.NewInt(1234),
	}
	h := s.Handler()

	w := get(h, "/api/v1/names/abc")
	assert.Equal(http.StatusOK, w.Code)
	var resp nameResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal("abc", resp.Name)
	assert.Equal("0x24fa5B1d7FBe98A9316101E311F0c409791EaA76", resp.Owner)
	assert.Equal("1234", resp.ExpirationBlock)

	b.getError = bc.ErrNotConnected
	w = get(h, "/api/v1/names/abc")
	assert.Equal(http.StatusServiceUnavailable, w.Code)

	b.getError = bc.ErrInvalidName
	w = get(h, "/api/v1/names/abc")
	assert.Equal(http.StatusBadRequest, w.Code)

	b.getError = errors.New("execution reverted")
	w = get(h, "/api/v1/names/abc")
	assert.Equal(http.StatusBadGateway, w.Code)
}

func Test_API_Fee(t *testing.T) {
	assert := assert.New(t)

	s, _ := newTestServer(t)
	h := s.Handler()

	w := get(h, "/api/v1/fee/5")
	assert.Equal(http.StatusOK, w.Code)
	var resp feeResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(5, resp.Blocks)
	assert.Equal("5000000000000", resp.FeeWei)
	assert.Equal("0.000005", resp.FeeEther)

	w = get(h, "/api/v1/fee/abc")
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_API_History(t *testing.T) {
	assert := assert.New(t)

	s, b := newTestServer(t)
	h := s.Handler()

	w := get(h, "/api/v1/history")
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq("[]", w.Body.String())

	for i := 0; i < 3; i++ {
		e := history.NewEntry()
		e.Name = "abc"
		b.entries = append(b.entries, e)
	}
	w = get(h, "/api/v1/history?limit=2")
	var entries []*history.Entry
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(entries, 2)

	w = get(h, "/api/v1/history?limit=x")
	assert.Equal(http.StatusBadRequest, w.Code)
}

func Test_CORS(t *testing.T) {
	assert := assert.New(t)

	s, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	r.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	assert.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func Test_HealthAndMetrics(t *testing.T) {
	assert := assert.New(t)

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)
	m.Invocation("register", true)

	flash := NewFlash()
	s, err := NewServer(&fakeBridge{flash: flash}, flash, Options{Gatherer: registry})
	require.NoError(t, err)
	h := s.Handler()

	w := get(h, "/health")
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("ok", w.Body.String())

	w = get(h, "/metrics")
	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), `namereg_invocations_total{operation="register",result="success"} 1`)
}
