// Package web serves the operation form and a JSON API over the bridge.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/regnull/namereg/bc"
	"github.com/regnull/namereg/contract"
	"github.com/regnull/namereg/history"
	"github.com/regnull/namereg/util"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultRateLimit    = 60
	defaultHistoryLimit = 20
	maxRequestBodySize  = 1 << 16
)

//go:embed templates/index.html
var templates embed.FS

// Bridge is the part of bc.Bridge the server uses.
type Bridge interface {
	Session() bc.Session
	Start(ctx context.Context) error
	Invoke(ctx context.Context, op bc.Operation, name string, blocks uint64) bc.Result
	GetData(ctx context.Context, name string) (contract.Record, error)
	Quote(ctx context.Context, blocks uint64) (*big.Int, error)
	History(limit int) ([]*history.Entry, error)
}

type Options struct {
	// RateLimit is the number of submissions allowed per minute.
	RateLimit      int
	HistoryLimit   int
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
}

type Server struct {
	bridge       Bridge
	flash        *Flash
	tmpl         *template.Template
	limiter      *rate.Limiter
	historyLimit int
	origins      []string
	gatherer     prometheus.Gatherer

	mu   sync.Mutex
	form Form
}

func NewServer(bridge Bridge, flash *Flash, opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if flash == nil {
		flash = NewFlash()
	}
	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		bridge:       bridge,
		flash:        flash,
		tmpl:         tmpl,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit),
		historyLimit: historyLimit,
		origins:      origins,
		gatherer:     gatherer,
		form:         NewForm(),
	}, nil
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/submit", s.HandleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/connect", s.HandleConnect).Methods(http.MethodPost)
	r.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/session", s.HandleSession).Methods(http.MethodGet)
	api.HandleFunc("/invoke", s.HandleInvoke).Methods(http.MethodPost)
	api.HandleFunc("/names/{name}", s.HandleGetName).Methods(http.MethodGet)
	api.HandleFunc("/fee/{blocks:[0-9]+}", s.HandleFee).Methods(http.MethodGet)
	api.HandleFunc("/history", s.HandleHistory).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// ListenAndServe serves on the port, with TLS if both files are given.
func (s *Server) ListenAndServe(ctx context.Context, port int, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", port).Msg("listening...")
	var err error
	if certFile != "" && keyFile != "" {
		err = srv.ListenAndServeTLS(certFile, keyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type message struct {
	Class string
	Text  string
}

type page struct {
	Session    bc.Session
	Form       Form
	Operations []option
	Messages   []message
}

var operationLabels = map[bc.Operation]string{
	bc.OpRegister: "Register (name, numBlocks)",
	bc.OpRenew:    "Renew (name, numBlocks)",
	bc.OpCancel:   "Cancel (name)",
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if op := r.URL.Query().Get("operation"); op != "" {
		if parsed, err := bc.ParseOperation(op); err == nil {
			s.form.Operation = parsed
		}
	}
	form := s.form
	s.mu.Unlock()

	p := page{Session: s.bridge.Session(), Form: form}
	for _, op := range bc.Operations {
		p.Operations = append(p.Operations, option{
			Value:    op.String(),
			Label:    operationLabels[op],
			Selected: op == form.Operation,
		})
	}
	for _, n := range s.flash.Drain() {
		text := n.Message
		if n.Err != nil {
			text = fmt.Sprintf("%s: %v", n.Message, n.Err)
		}
		p.Messages = append(p.Messages, message{Class: n.Kind.String(), Text: text})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, p); err != nil {
		log.Error().Err(err).Msg("failed to render page")
	}
}

func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/", http.StatusSeeOther)

	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("failed to parse form")
		s.flash.Notify(bc.Notification{Kind: bc.Failure, Message: "Invalid form", Err: err})
		return
	}
	form, err := ParseForm(r.PostForm.Get("operation"), r.PostForm.Get("name"), r.PostForm.Get("numBlocks"))
	if err != nil {
		s.mu.Lock()
		if form.Operation.Valid() {
			s.form = form
		}
		s.mu.Unlock()
		s.flash.Notify(bc.Notification{Kind: bc.Failure, Message: "Invalid form", Err: err})
		return
	}

	s.mu.Lock()
	s.form = form
	s.mu.Unlock()

	if !s.limiter.Allow() {
		log.Warn().Msg("rate limit exceeded")
		s.flash.Notify(bc.Notification{Kind: bc.Failure, Message: "Too many requests, try again later"})
		return
	}

	res := s.bridge.Invoke(r.Context(), form.Operation, form.Name, form.Blocks)
	if res.OK() {
		s.mu.Lock()
		s.form.Reset()
		s.mu.Unlock()
	}
}

func (s *Server) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if err := s.bridge.Start(r.Context()); err != nil {
		log.Warn().Err(err).Msg("failed to connect wallet")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

type sessionResponse struct {
	Account          string `json:"account,omitempty"`
	NetworkID        string `json:"network_id,omitempty"`
	ContractAddress  string `json:"contract_address,omitempty"`
	Loading          bool   `json:"loading"`
	ConnectionFailed bool   `json:"connection_failed"`
	Alert            string `json:"alert,omitempty"`
	Ready            bool   `json:"ready"`
}

func (s *Server) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess := s.bridge.Session()
	writeJSON(w, http.StatusOK, sessionResponse{
		Account:          sess.Account,
		NetworkID:        sess.NetworkID,
		ContractAddress:  sess.ContractAddress,
		Loading:          sess.Loading,
		ConnectionFailed: sess.ConnectionFailed,
		Alert:            sess.Alert,
		Ready:            sess.Ready(),
	})
}

type InvokeRequest struct {
	Operation string `json:"operation"`
	Name      string `json:"name"`
	Blocks    uint64 `json:"blocks"`
}

type InvokeResponse struct {
	OK          bool   `json:"ok"`
	Operation   string `json:"operation"`
	Name        string `json:"name"`
	Blocks      uint64 `json:"blocks"`
	Fee         string `json:"fee"`
	TxHash      string `json:"tx_hash,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	Error       string `json:"error,omitempty"`
}

// HandleInvoke returns 200 for every invocation the bridge ran, the outcome
// is in the body.
func (s *Server) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse request json: %w", err))
		return
	}
	op, err := bc.ParseOperation(req.Operation)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
		return
	}

	res := s.bridge.Invoke(r.Context(), op, req.Name, req.Blocks)
	resp := InvokeResponse{
		OK:          res.OK(),
		Operation:   res.Operation.String(),
		Name:        res.Name,
		Blocks:      res.Blocks,
		Fee:         "0",
		BlockNumber: res.BlockNumber,
	}
	if res.Fee != nil {
		resp.Fee = res.Fee.String()
	}
	if res.TxHash != (common.Hash{}) {
		resp.TxHash = res.TxHash.Hex()
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type nameResponse struct {
	Name            string `json:"name"`
	Owner           string `json:"owner"`
	ExpirationBlock string `json:"expiration_block"`
}

func (s *Server) HandleGetName(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rec, err := s.bridge.GetData(r.Context(), name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	resp := nameResponse{Name: name, Owner: rec.Owner.Hex(), ExpirationBlock: "0"}
	if rec.ExpirationBlock != nil {
		resp.ExpirationBlock = rec.ExpirationBlock.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

type feeResponse struct {
	Blocks   uint64 `json:"blocks"`
	FeeWei   string `json:"fee_wei"`
	FeeEther string `json:"fee_ether"`
}

func (s *Server) HandleFee(w http.ResponseWriter, r *http.Request) {
	blocks, err := strconv.ParseUint(mux.Vars(r)["blocks"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fee, err := s.bridge.Quote(r.Context(), blocks)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, feeResponse{Blocks: blocks, FeeWei: fee.String(), FeeEther: util.FormatWei(fee)})
}

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	entries, err := s.bridge.History(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bc.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, bc.ErrNotConnected), errors.Is(err, bc.ErrNetworkNotSupported):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Warn().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
