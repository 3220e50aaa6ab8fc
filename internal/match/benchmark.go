package match

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/agent"
)

const seedStride = 1000

var (
	ErrInvalidGames = errors.New("number of games must be positive")
	ErrManualAgent  = errors.New("manual agents cannot take part in unattended runs")
)

type BenchConfig struct {
	Black     string
	White     string
	Games     int
	Seed      *int64
	SwapSides bool
	Workers   int
}

// GameRow is one line of the per-game report.
type GameRow struct {
	Game   int
	Black  string
	White  string
	Result string
}

// Benchmark plays cfg.Games independent matches on a pool of workers. Each
// match is still driven by a single goroutine. Rows come back in game order.
func (that *Runner) Benchmark(ctx context.Context, cfg BenchConfig) (Stats, []GameRow, error) {
	if cfg.Games <= 0 {
		return Stats{}, nil, ErrInvalidGames
	}

	if !agent.Automated(cfg.Black) || !agent.Automated(cfg.White) {
		return Stats{}, nil, ErrManualAgent
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, cfg.Games)

	log := that.logger.With("method", "Benchmark", "games", cfg.Games, "workers", workers)
	log.Info("benchmark started", "black", cfg.Black, "white", cfg.White, "swap_sides", cfg.SwapSides)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		stats    counters
		rows     = make([]GameRow, cfg.Games)
		jobs     = make(chan int)
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range jobs {
				row, result, err := that.playBenchGame(ctx, cfg, i)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}

				stats.record(result.Winner)
				rows[i] = row
			}
		}()
	}

feed:
	for i := 0; i < cfg.Games; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return stats.snapshot(), nil, fmt.Errorf("benchmark failed: %w", firstErr)
	}

	if err := ctx.Err(); err != nil {
		return stats.snapshot(), nil, fmt.Errorf("benchmark interrupted: %w", err)
	}

	summary := stats.snapshot()
	log.Info("benchmark complete", "black_wins", summary.BlackWins, "white_wins", summary.WhiteWins, "draws", summary.Draws)

	return summary, rows, nil
}

func (that *Runner) playBenchGame(ctx context.Context, cfg BenchConfig, index int) (GameRow, Result, error) {
	blackName, whiteName := cfg.Black, cfg.White
	if cfg.SwapSides && index%2 == 1 {
		blackName, whiteName = whiteName, blackName
	}

	var blackOpts, whiteOpts agent.Options
	if cfg.Seed != nil {
		gameSeed := *cfg.Seed + int64(index)*seedStride
		blackOpts.Seed = agent.SeedFrom(gameSeed)
		whiteOpts.Seed = agent.SeedFrom(gameSeed + 1)
	}

	black, err := agent.New(blackName, blackOpts)
	if err != nil {
		return GameRow{}, Result{}, fmt.Errorf("game %d: %w", index, err)
	}

	white, err := agent.New(whiteName, whiteOpts)
	if err != nil {
		return GameRow{}, Result{}, fmt.Errorf("game %d: %w", index, err)
	}

	result, err := that.Play(ctx, black, white)
	if err != nil {
		return GameRow{}, Result{}, fmt.Errorf("game %d: %w", index, err)
	}

	return GameRow{Game: index, Black: blackName, White: whiteName, Result: result.Outcome()}, result, nil
}

// WriteCSV writes the per-game report with a header line.
func WriteCSV(w io.Writer, rows []GameRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"game", "black_agent", "white_agent", "result"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{strconv.Itoa(row.Game), row.Black, row.White, row.Result}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", row.Game, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}
