package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"PayEngine/internal/csvio"
	"PayEngine/internal/engine"
	"PayEngine/internal/ingestion"
	"PayEngine/internal/observability"
	"PayEngine/internal/persistence"
	"PayEngine/internal/tx"
)

// Config holds all application configuration, loaded from environment
// variables with defaults.
type Config struct {
	// Diagnostic sink for rejected/malformed records
	RejectLogPath string

	// Optional end-of-run snapshot archival (empty disables)
	SnapshotDSN       string
	SnapshotBatchSize int

	// Stream mode
	NATSURL        string
	NATSSubject    string
	HTTPAddr       string
	RecordChanSize int

	// Dispute policy: the governing rules are ambiguous on withdrawal
	// disputes; default is to reject them.
	AllowWithdrawalDisputes bool
}

func DefaultConfig() Config {
	return Config{
		RejectLogPath:           envOrDefault("PAY_REJECT_LOG", "errors.log"),
		SnapshotDSN:             os.Getenv("PAY_SNAPSHOT_DSN"),
		SnapshotBatchSize:       envIntOrDefault("PAY_SNAPSHOT_BATCH_SIZE", 500),
		NATSURL:                 envOrDefault("PAY_NATS_URL", nats.DefaultURL),
		NATSSubject:             envOrDefault("PAY_NATS_SUBJECT", "pay.tx"),
		HTTPAddr:                envOrDefault("PAY_HTTP_ADDR", ":8080"),
		RecordChanSize:          envIntOrDefault("PAY_RECORD_CHAN_SIZE", 1024),
		AllowWithdrawalDisputes: envBoolOrDefault("PAY_ALLOW_WITHDRAWAL_DISPUTES", false),
	}
}

func main() {
	serve := flag.Bool("serve", false, "consume records from NATS instead of a CSV file")
	flag.Parse()

	logger := observability.NewLogger("payengine")
	cfg := DefaultConfig()

	var err error
	if *serve {
		err = runServe(cfg, logger)
	} else {
		if flag.NArg() != 1 {
			fmt.Fprintf(os.Stderr, "Usage: %s [-serve] <transactions.csv|->\n", os.Args[0])
			os.Exit(2)
		}
		err = runBatch(cfg, logger, flag.Arg(0))
	}
	if err != nil {
		logger.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

// runBatch processes one CSV input ("-" for stdin) and writes the
// account report to stdout. Individual record failures go to the
// rejection log; only input-source failure is fatal.
func runBatch(cfg Config, logger zerolog.Logger, path string) error {
	var in io.Reader
	if path == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	rejects := observability.OpenRejectionLog(cfg.RejectLogPath, logger)
	defer rejects.Close()

	eng := engine.New(engine.Options{
		AllowWithdrawalDisputes: cfg.AllowWithdrawalDisputes,
		Logger:                  observability.NewLogger("engine"),
	})

	if err := process(eng, bufio.NewReader(in), logger, rejects); err != nil {
		return err
	}

	if err := csvio.WriteSnapshots(os.Stdout, eng.Snapshots()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info().
		Int64("applied", eng.Applied()).
		Int64("rejected", eng.Rejected()).
		Int("accounts", eng.AccountCount()).
		Msg("run complete")

	archiveSnapshots(cfg, logger, eng)
	return nil
}

// process drives the engine over one record stream.
func process(eng *engine.Engine, in io.Reader, logger zerolog.Logger, rejects *observability.RejectionLog) error {
	r := csvio.NewReader(in)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var perr *csvio.ParseError
		if errors.As(err, &perr) {
			logger.Warn().Err(perr).Msg("malformed record")
			rejects.Write(perr.Error())
			continue
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if err := eng.Apply(rec); err != nil {
			logger.Warn().Err(err).Msg("record rejected")
			rejects.Write(err.Error())
		}
	}
}

// runServe consumes records from NATS and serves /metrics, /accounts
// and health endpoints until SIGINT/SIGTERM, then emits the final
// report to stdout.
func runServe(cfg Config, logger zerolog.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	metrics := observability.NewMetrics()
	health := observability.NewHealthChecker()

	eng := engine.New(engine.Options{
		AllowWithdrawalDisputes: cfg.AllowWithdrawalDisputes,
		Logger:                  observability.NewLogger("engine"),
		Metrics:                 metrics,
	})
	// The engine itself is single-owner; the shell serializes the apply
	// loop against snapshot reads from the HTTP handler.
	var mu sync.Mutex

	natsClosed := make(chan struct{})
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("payengine"),
		nats.ClosedHandler(func(*nats.Conn) { close(natsClosed) }),
	)
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()
	logger.Info().Str("url", cfg.NATSURL).Msg("nats connected")

	recordChan := make(chan tx.Record, cfg.RecordChanSize)
	sub := ingestion.NewSubscriber(nc, recordChan, observability.NewLogger("ingestion"))
	if err := sub.Subscribe(cfg.NATSSubject); err != nil {
		return err
	}

	rejects := observability.OpenRejectionLog(cfg.RejectLogPath, logger)
	defer rejects.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.LivenessHandler)
	mux.HandleFunc("/readyz", health.ReadinessHandler)
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		snaps := eng.Snapshots()
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snaps)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	applyDone := make(chan struct{})
	go func() {
		defer close(applyDone)
		for rec := range recordChan {
			mu.Lock()
			err := eng.Apply(rec)
			mu.Unlock()
			if err != nil {
				logger.Warn().Err(err).Msg("record rejected")
				rejects.Write(err.Error())
			}
		}
	}()

	health.SetReady(true)
	logger.Info().Str("subject", cfg.NATSSubject).Str("http", cfg.HTTPAddr).Msg("serving")

	<-sigChan
	logger.Info().Msg("shutting down")
	health.SetReady(false)

	// Drain the connection so no handler can send after the channel
	// closes, then let the apply loop finish the backlog.
	if err := nc.Drain(); err != nil {
		logger.Warn().Err(err).Msg("nats drain")
	}
	select {
	case <-natsClosed:
	case <-time.After(10 * time.Second):
		logger.Warn().Msg("nats drain timed out")
	}
	close(recordChan)
	<-applyDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	if err := csvio.WriteSnapshots(os.Stdout, eng.Snapshots()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info().
		Int64("applied", eng.Applied()).
		Int64("rejected", eng.Rejected()).
		Int("accounts", eng.AccountCount()).
		Msg("serve complete")

	archiveSnapshots(cfg, logger, eng)
	return nil
}

// archiveSnapshots exports the final snapshots to Postgres when a DSN
// is configured. Archival is best-effort: failures are logged, never
// fatal.
func archiveSnapshots(cfg Config, logger zerolog.Logger, eng *engine.Engine) {
	if cfg.SnapshotDSN == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", cfg.SnapshotDSN)
	if err != nil {
		logger.Warn().Err(err).Msg("snapshot archive: open")
		return
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Warn().Err(err).Msg("snapshot archive: ping")
		return
	}

	arch := persistence.NewSnapshotArchiver(db, cfg.SnapshotBatchSize)
	if err := arch.EnsureSchema(ctx); err != nil {
		logger.Warn().Err(err).Msg("snapshot archive: schema")
		return
	}

	runID := uuid.New()
	if err := arch.Archive(ctx, runID, eng.Snapshots()); err != nil {
		logger.Warn().Err(err).Msg("snapshot archive: write")
		return
	}
	logger.Info().Str("run_id", runID.String()).Int("accounts", eng.AccountCount()).
		Msg("snapshots archived")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
