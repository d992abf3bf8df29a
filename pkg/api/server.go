package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tradezlabs/tradez/pkg/account"
	"github.com/tradezlabs/tradez/pkg/history"
	"github.com/tradezlabs/tradez/pkg/orderbook"
	"github.com/tradezlabs/tradez/pkg/settlement"
	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/types"
)

// Server handles the JSON-RPC 2.0 surface over POST /rpc and the
// subscription surface over GET /ws. Apart from the trade-history log that
// backs get_history, every query re-reads current state from the store the
// settlement engine also reads and writes. One mutex serializes every RPC
// call, writes and reads alike.
type Server struct {
	mu      sync.Mutex
	st      store.Store
	engine  *settlement.Engine
	history *history.Log
	router  *mux.Router
	hub     *Hub
	logger  *zap.SugaredLogger
}

// NewServer builds a Server around an already-constructed Hub so that
// callers can wire the same Hub into the settlement engine's EventSink
// before the engine ever runs (see cmd/sequencer).
func NewServer(st store.Store, engine *settlement.Engine, hist *history.Log, hub *Hub, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		st:      st,
		engine:  engine,
		history: hist,
		router:  mux.NewRouter(),
		hub:     hub,
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

// Hub returns the WebSocket broadcast hub the server was built with.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/rpc", s.handleRPC).Methods("POST")
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
}

// Start runs the hub loop and serves HTTP on addr until the process exits
// or ListenAndServe returns an error.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	})

	s.logger.Infow("rpc server starting", "addr", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, codeParseError, "invalid JSON-RPC request")
		return
	}

	result, rpcErr := s.dispatch(req.Method, req.Params)
	if rpcErr != nil {
		writeError(w, req.ID, rpcErr.Code, rpcErr.Message)
		return
	}
	writeResult(w, req.ID, result)
}

func (s *Server) dispatch(method string, params json.RawMessage) (interface{}, *RPCError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch method {
	case "send_order":
		return s.sendOrder(params)
	case "cancel_order":
		return s.cancelOrder(params)
	case "faucet":
		return s.faucet(params)
	case "get_balances":
		return s.getBalances(params)
	case "get_orders":
		return s.getOrders(params)
	case "get_orderbook_state":
		return s.getOrderBookState(params)
	case "get_history":
		return s.getHistory(params)
	default:
		return nil, &RPCError{Code: codeMethodNotFound, Message: "unknown method " + method}
	}
}

func decodeRaw(hexStr string) ([]byte, *RPCError) {
	raw, err := hex.DecodeString(trimHexPrefix(hexStr))
	if err != nil {
		return nil, &RPCError{Code: codeInvalidParams, Message: "raw must be hex-encoded"}
	}
	return raw, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func (s *Server) sendOrder(params json.RawMessage) (interface{}, *RPCError) {
	var p SendOrderParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
	}
	raw, rpcErr := decodeRaw(p.Raw)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.HandleExternal(raw); err != nil {
		return nil, &RPCError{Code: codeApplyRejected, Message: err.Error()}
	}
	s.broadcastOrderBookState()
	return map[string]string{"status": "applied"}, nil
}

func (s *Server) cancelOrder(params json.RawMessage) (interface{}, *RPCError) {
	var p CancelOrderParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
	}
	raw, rpcErr := decodeRaw(p.Raw)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.HandleExternal(raw); err != nil {
		return nil, &RPCError{Code: codeApplyRejected, Message: err.Error()}
	}
	s.broadcastOrderBookState()
	return map[string]string{"status": "applied"}, nil
}

func (s *Server) faucet(params json.RawMessage) (interface{}, *RPCError) {
	var p FaucetParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
	}
	raw, rpcErr := decodeRaw(p.Raw)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.HandleExternal(raw); err != nil {
		return nil, &RPCError{Code: codeApplyRejected, Message: err.Error()}
	}
	return map[string]string{"status": "applied"}, nil
}

func (s *Server) getBalances(params json.RawMessage) (interface{}, *RPCError) {
	var p GetBalancesParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
	}
	if !common.IsHexAddress(p.Address) {
		return nil, &RPCError{Code: codeInvalidParams, Message: "invalid address"}
	}
	acc, err := account.Load(s.st, common.HexToAddress(p.Address))
	if err != nil {
		return nil, &RPCError{Code: codeApplyRejected, Message: err.Error()}
	}
	if acc == nil {
		return []BalanceInfo{
			{Currency: types.USDC.String(), Amount: 0},
			{Currency: types.XTZ.String(), Amount: 0},
		}, nil
	}
	return []BalanceInfo{
		{Currency: types.USDC.String(), Amount: acc.Balance(types.USDC)},
		{Currency: types.XTZ.String(), Amount: acc.Balance(types.XTZ)},
	}, nil
}

func (s *Server) getOrders(params json.RawMessage) (interface{}, *RPCError) {
	var p GetOrdersParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
	}
	if !common.IsHexAddress(p.Address) {
		return nil, &RPCError{Code: codeInvalidParams, Message: "invalid address"}
	}
	acc, err := account.Load(s.st, common.HexToAddress(p.Address))
	if err != nil {
		return nil, &RPCError{Code: codeApplyRejected, Message: err.Error()}
	}
	if acc == nil {
		return []OrderInfo{}, nil
	}

	ob, err := orderbook.Load(s.st)
	if err != nil {
		return nil, &RPCError{Code: codeApplyRejected, Message: err.Error()}
	}

	out := make([]OrderInfo, 0, len(acc.Orders))
	for id := range acc.Orders {
		o, ok := ob.GetOrder(id)
		if !ok {
			continue
		}
		out = append(out, OrderInfo{ID: o.ID, Side: o.Side.String(), Price: o.Price, Qty: o.Qty, Remaining: o.Remaining})
	}
	return out, nil
}

func (s *Server) getOrderBookState(params json.RawMessage) (interface{}, *RPCError) {
	var p GetOrderBookStateParams
	_ = json.Unmarshal(params, &p) // absent params is a valid "no price filter" request

	ob, err := orderbook.Load(s.st)
	if err != nil {
		return nil, &RPCError{Code: codeApplyRejected, Message: err.Error()}
	}
	state := orderBookState(ob)
	if p.Price != 0 {
		qty := ob.PriceQuantityAt(p.Price)
		state.QtyAtPrice = &qty
	}
	return state, nil
}

func orderBookState(ob *orderbook.OrderBook) OrderBookState {
	bids := ob.BidLevels()
	asks := ob.AskLevels()
	state := OrderBookState{
		Bids: make([]LevelInfo, len(bids)),
		Asks: make([]LevelInfo, len(asks)),
	}
	for i, l := range bids {
		state.Bids[i] = LevelInfo{Price: l.Price, Qty: l.Qty}
	}
	for i, l := range asks {
		state.Asks[i] = LevelInfo{Price: l.Price, Qty: l.Qty}
	}
	if spread, ok := ob.Spread(); ok {
		state.Spread = &spread
	}
	return state
}

func (s *Server) broadcastOrderBookState() {
	ob, err := orderbook.Load(s.st)
	if err != nil {
		s.logger.Warnw("orderbook_state broadcast skipped", "cause", err)
		return
	}
	s.hub.BroadcastToChannel(ChannelOrderBookState, orderBookState(ob))
}

func (s *Server) getHistory(params json.RawMessage) (interface{}, *RPCError) {
	var p GetHistoryParams
	_ = json.Unmarshal(params, &p) // absent params is a valid "no limit" request

	entries := s.history.Recent(p.Limit)
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			TimestampMs: e.TimestampMs,
			Price:       e.Price,
			Qty:         e.Qty,
			Side:        types.Side(e.Side).String(),
		}
	}
	return out, nil
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func writeError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}})
}
