package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tradezlabs/tradez/params"
	"github.com/tradezlabs/tradez/pkg/api"
	"github.com/tradezlabs/tradez/pkg/history"
	"github.com/tradezlabs/tradez/pkg/settlement"
	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/types"
	"github.com/tradezlabs/tradez/pkg/util"
)

// sequencerSink is the settlement engine's EventSink: it logs every event's
// kind at debug level (not its encoded bytes), appends Trade events only to
// the trade-history log, and forwards every event onto the WebSocket
// "event" channel for subscribeEvent.
type sequencerSink struct {
	logger  *zap.SugaredLogger
	history *history.Log
	hub     *api.Hub
}

func (s *sequencerSink) Emit(events []types.Event) {
	for _, ev := range events {
		s.logger.Debugw("event", "kind", ev.Kind)

		if ev.Kind == types.EventKindTrade {
			trade := ev.Trade
			s.history.Append(uint64(time.Now().UnixMilli()), trade.Price, trade.Qty, uint8(trade.OriginSide))
		}

		s.hub.BroadcastToChannel(api.ChannelEvent, ev)
	}
}

func main() {
	cfg := params.LoadFromEnv("")

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/sequencer.log"
	}
	logger, err := util.NewLoggerWithFile(logFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", logFile)

	if err := os.MkdirAll(cfg.Store.DataDir, 0755); err != nil {
		sugar.Fatalw("data_dir_create_failed", "err", err)
	}
	st, err := store.NewPebbleStore(cfg.Store.DataDir)
	if err != nil {
		sugar.Fatalw("pebble_open_failed", "err", err)
	}
	defer st.Close()

	hub := api.NewHub(sugar)
	hist := history.NewLog(1000)
	sink := &sequencerSink{logger: sugar, history: hist, hub: hub}

	engine := settlement.NewEngine(st, sink, sugar)
	server := api.NewServer(st, engine, hist, hub, sugar)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.Start(cfg.RPC.ListenAddr); err != nil {
			sugar.Fatalw("rpc_server_failed", "err", err)
		}
	}()

	sugar.Infow("sequencer_starting", "rpc_addr", cfg.RPC.ListenAddr, "data_dir", cfg.Store.DataDir)

	<-ctx.Done()
	sugar.Info("sequencer_shutting_down")
}
