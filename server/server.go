package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mobile-next/wdactl/commands"
	"github.com/mobile-next/wdactl/config"
	"github.com/mobile-next/wdactl/utils"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

const (
	errTitleParseError   = "Parse error"
	errTitleInvalidReq   = "Invalid Request"
	errTitleNotFound     = "Method not found"
	errTitleServerError  = "Server error"
	errTitleInvalidParam = "Invalid params"

	errMsgParseError     = "expecting jsonrpc payload"
	errMsgInvalidJSONRPC = "'jsonrpc' must be '2.0'"
	errMsgIDRequired     = "'id' field is required"
	errMsgMethodRequired = "'method' is required"
)

// Server timeouts
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 90 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 5 * time.Second
)

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Server exposes the device action surface over JSON-RPC and keeps the
// sessions of cached devices alive
type Server struct {
	conf     config.Server
	keepSpec string
	log      *logrus.Entry

	httpServer *http.Server
	cron       *cron.Cron
	methods    map[string]HandlerFunc

	stopOnce sync.Once
	stopped  chan struct{}
}

func NewServer(cfg *config.Config) *Server {
	s := &Server{
		conf:     cfg.Server,
		keepSpec: cfg.WDA.KeepAlive,
		log:      utils.Logger("server"),
		stopped:  make(chan struct{}),
	}
	s.methods = s.methodRegistry()
	return s
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the HTTP routes: the banner, /rpc and /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", s.handleJSONRPC)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(w, r, s.conf.CORS)
	})

	if s.conf.CORS {
		return corsMiddleware(mux)
	}
	return mux
}

// normalizeAddr accepts a bare port and defaults the host to all interfaces
func normalizeAddr(addr string) (string, error) {
	if strings.Contains(addr, ":") {
		return addr, nil
	}

	port, err := strconv.Atoi(addr)
	if err != nil {
		return "", fmt.Errorf("invalid port: %v", err)
	}
	return fmt.Sprintf(":%d", port), nil
}

// ListenAndServe serves until ctx is cancelled or server.shutdown is called
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr, err := normalizeAddr(s.conf.Listen)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if err := s.startKeepAlive(); err != nil {
		_ = listener.Close()
		return err
	}
	defer s.stopKeepAlive()

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-s.stopped:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("server shutdown: %v", err)
		}
	}()

	s.log.Infof("Starting server on http://%s...", listener.Addr())
	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop asks a running server to shut down. It is safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
	})
}

// StartServer runs a server for cfg until ctx is done
func StartServer(ctx context.Context, cfg *config.Config) error {
	return NewServer(cfg).ListenAndServe(ctx)
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, errTitleParseError, errMsgParseError)
		return
	}

	if code, title, msg, ok := validateRequest(req); !ok {
		sendJSONRPCError(w, req.ID, code, title, msg)
		return
	}

	s.log.Infof("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	result, code, err := s.execute(r.Context(), req.Method, req.Params)
	if err != nil {
		s.log.Errorf("Error executing method %s: %v", req.Method, err)
		sendJSONRPCError(w, req.ID, code, errorTitle(code), err.Error())
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

// validateRequest checks the envelope fields shared by /rpc and /ws
func validateRequest(req JSONRPCRequest) (code int, title, msg string, ok bool) {
	switch {
	case req.JSONRPC != "2.0":
		return ErrCodeInvalidRequest, errTitleInvalidReq, errMsgInvalidJSONRPC, false
	case req.ID == nil:
		return ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired, false
	case req.Method == "":
		return ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethodRequired, false
	}
	return 0, "", "", true
}

// execute runs a registered method and picks the JSON-RPC error code for
// its failure
func (s *Server) execute(ctx context.Context, method string, params json.RawMessage) (interface{}, int, error) {
	handler, exists := s.methods[method]
	if !exists {
		return nil, ErrCodeMethodNotFound, fmt.Errorf("Method '%s' not found", method)
	}

	result, err := handler(ctx, params)
	if err != nil {
		var invalid *invalidParamsError
		if errors.As(err, &invalid) {
			return nil, ErrCodeInvalidParams, err
		}
		return nil, ErrCodeServerError, err
	}
	return result, 0, nil
}

func errorTitle(code int) string {
	switch code {
	case ErrCodeMethodNotFound:
		return errTitleNotFound
	case ErrCodeInvalidParams:
		return errTitleInvalidParam
	default:
		return errTitleServerError
	}
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(newErrorResponse(id, code, message, data))
}

func newErrorResponse(id interface{}, code int, message string, data interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}

// commandResult unwraps a command response into a JSON-RPC result
func commandResult(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	if response.Data == nil {
		return okResponse, nil
	}
	return response.Data, nil
}
