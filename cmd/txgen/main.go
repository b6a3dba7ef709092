// txgen emits a synthetic transaction CSV for load and soak testing:
// interleaved deposits and withdrawals per client, followed by a
// shuffled tail of disputes, each closed by a resolve or chargeback.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"PayEngine/internal/observability"
)

type genConfig struct {
	Accounts      int
	MinPerAccount int
	MaxPerAccount int

	MinAmount float64
	MaxAmount float64
	Precision int

	WithdrawalProb float64
	OverdrawProb   float64
	DisputeProb    float64
	ResolveProb    float64

	Seed    int64
	Outfile string
}

type genRow struct {
	kind   string
	client uint16
	tx     uint32
	amount float64
	hasAmt bool
}

func (r genRow) csv(precision int) string {
	if !r.hasAmt {
		return fmt.Sprintf("%s,%d,%d,", r.kind, r.client, r.tx)
	}
	return fmt.Sprintf("%s,%d,%d,%.*f", r.kind, r.client, r.tx, precision, r.amount)
}

func main() {
	var cfg genConfig
	flag.IntVar(&cfg.Accounts, "accounts", 100, "number of client accounts")
	flag.IntVar(&cfg.MinPerAccount, "min-tx", 5, "minimum transactions per account")
	flag.IntVar(&cfg.MaxPerAccount, "max-tx", 20, "maximum transactions per account")
	flag.Float64Var(&cfg.MinAmount, "min-amount", 1.0, "minimum transaction amount")
	flag.Float64Var(&cfg.MaxAmount, "max-amount", 1000.0, "maximum transaction amount")
	flag.IntVar(&cfg.Precision, "precision", 4, "decimal places for amounts (max 4)")
	flag.Float64Var(&cfg.WithdrawalProb, "withdrawal-prob", 0.3, "probability a transaction is a withdrawal")
	flag.Float64Var(&cfg.OverdrawProb, "overdraw-prob", 0.1, "probability a withdrawal ignores the running balance")
	flag.Float64Var(&cfg.DisputeProb, "dispute-prob", 0.05, "probability a deposit is later disputed")
	flag.Float64Var(&cfg.ResolveProb, "resolve-prob", 0.7, "probability a dispute resolves rather than charges back")
	flag.Int64Var(&cfg.Seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.StringVar(&cfg.Outfile, "o", "-", "output file (\"-\" for stdout)")
	flag.Parse()

	logger := observability.NewLogger("txgen")

	if err := validate(cfg); err != nil {
		logger.Error().Err(err).Msg("invalid flags")
		os.Exit(2)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rows := generate(cfg, rand.New(rand.NewSource(seed)))

	var out io.Writer = os.Stdout
	if cfg.Outfile != "-" {
		f, err := os.Create(cfg.Outfile)
		if err != nil {
			logger.Error().Err(err).Msg("create output")
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := writeRows(out, cfg.Precision, rows); err != nil {
		logger.Error().Err(err).Msg("write output")
		os.Exit(1)
	}

	logger.Info().
		Int("transactions", len(rows)).
		Int("accounts", cfg.Accounts).
		Int64("seed", seed).
		Msg("generated")
}

func validate(cfg genConfig) error {
	if cfg.Accounts <= 0 || cfg.Accounts > math.MaxUint16 {
		return fmt.Errorf("accounts must be in 1..%d", math.MaxUint16)
	}
	if cfg.MinPerAccount <= 0 || cfg.MinPerAccount > cfg.MaxPerAccount {
		return fmt.Errorf("min-tx must be in 1..max-tx")
	}
	if cfg.MinAmount < 0 || cfg.MinAmount > cfg.MaxAmount {
		return fmt.Errorf("min-amount must be in 0..max-amount")
	}
	if cfg.Precision < 0 || cfg.Precision > 4 {
		return fmt.Errorf("precision must be in 0..4")
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"withdrawal-prob", cfg.WithdrawalProb},
		{"overdraw-prob", cfg.OverdrawProb},
		{"dispute-prob", cfg.DisputeProb},
		{"resolve-prob", cfg.ResolveProb},
	} {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%s must be in 0..1", p.name)
		}
	}
	return nil
}

type clientState struct {
	available float64
	remaining int
}

func generate(cfg genConfig, rng *rand.Rand) []genRow {
	states := make(map[uint16]*clientState, cfg.Accounts)
	active := make([]uint16, 0, cfg.Accounts)
	for c := 1; c <= cfg.Accounts; c++ {
		id := uint16(c)
		states[id] = &clientState{
			remaining: cfg.MinPerAccount + rng.Intn(cfg.MaxPerAccount-cfg.MinPerAccount+1),
		}
		active = append(active, id)
	}

	var rows []genRow
	var disputable []genRow // deposits flagged for a later dispute
	nextTx := uint32(1)

	// Interleave accounts so transaction ids do not cluster per client.
	for len(active) > 0 {
		idx := rng.Intn(len(active))
		client := active[idx]
		state := states[client]

		if rng.Float64() < cfg.WithdrawalProb {
			var amount float64
			if state.available <= 0 || rng.Float64() < cfg.OverdrawProb {
				amount = randAmount(rng, cfg)
			} else {
				hi := math.Min(state.available, cfg.MaxAmount)
				lo := math.Min(cfg.MinAmount, hi)
				amount = roundTo(lo+rng.Float64()*(hi-lo), cfg.Precision)
			}
			rows = append(rows, genRow{kind: "withdrawal", client: client, tx: nextTx, amount: amount, hasAmt: true})
			if amount <= state.available {
				state.available -= amount
			}
		} else {
			amount := randAmount(rng, cfg)
			row := genRow{kind: "deposit", client: client, tx: nextTx, amount: amount, hasAmt: true}
			rows = append(rows, row)
			state.available += amount
			if rng.Float64() < cfg.DisputeProb {
				disputable = append(disputable, row)
			}
		}

		nextTx++
		state.remaining--
		if state.remaining == 0 {
			active[idx] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}

	rng.Shuffle(len(disputable), func(i, j int) {
		disputable[i], disputable[j] = disputable[j], disputable[i]
	})
	for _, d := range disputable {
		rows = append(rows, genRow{kind: "dispute", client: d.client, tx: d.tx})
	}
	for _, d := range disputable {
		kind := "chargeback"
		if rng.Float64() < cfg.ResolveProb {
			kind = "resolve"
		}
		rows = append(rows, genRow{kind: kind, client: d.client, tx: d.tx})
	}

	return rows
}

func randAmount(rng *rand.Rand, cfg genConfig) float64 {
	return roundTo(cfg.MinAmount+rng.Float64()*(cfg.MaxAmount-cfg.MinAmount), cfg.Precision)
}

func roundTo(v float64, precision int) float64 {
	factor := math.Pow10(precision)
	return math.Round(v*factor) / factor
}

func writeRows(w io.Writer, precision int, rows []genRow) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("type,client,tx,amount\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := bw.WriteString(r.csv(precision) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
