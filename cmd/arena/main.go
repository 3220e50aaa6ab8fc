// Command arena runs Gomoku matches between agents without the play server.
//
//	arena match -black random -white greedy -print-board
//	arena bench -black greedy -white random -games 200 -seed 0 -swap-sides -csv results.csv
//	arena tournament -agents random,greedy -games-per-pair 4
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/gomoku-backend/internal/agent"
	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/console"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/logger"
	"github.com/rocketscienceinc/gomoku-backend/internal/match"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitMatch
)

// seedFlag is an optional int64 flag; unset means a time based seed.
type seedFlag struct {
	value *int64
}

func (that *seedFlag) String() string {
	if that.value == nil {
		return ""
	}

	return strconv.FormatInt(*that.value, 10)
}

func (that *seedFlag) Set(raw string) error {
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seed %q: %w", raw, err)
	}

	that.value = &seed

	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli holds the streams of one invocation.
type cli struct {
	in      io.Reader
	stderr  io.Writer
	printer *console.Printer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{
		in:      stdin,
		stderr:  stderr,
		printer: console.NewPrinter(termenv.NewOutput(stdout)),
	}

	var err error
	switch args[0] {
	case "match":
		err = app.runMatch(ctx, args[1:])
	case "bench":
		err = app.runBench(ctx, args[1:])
	case "tournament":
		err = app.runTournament(ctx, args[1:])
	default:
		usage(stderr)
		return exitUsage
	}

	code := exitCode(err)
	if code != exitOK {
		fmt.Fprintln(stderr, err)
	}

	return code
}

func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage),
		errors.Is(err, agent.ErrUnknownAgent),
		errors.Is(err, match.ErrManualAgent),
		errors.Is(err, match.ErrInvalidGames),
		errors.Is(err, match.ErrNotEnoughAgents),
		errors.Is(err, config.ErrInvalidBoardSize):
		return exitUsage
	case errors.Is(err, match.ErrTooManyIllegalMoves), errors.Is(err, agent.ErrNoInput):
		return exitMatch
	default:
		return exitFailure
	}
}

var errUsage = errors.New("invalid arguments")

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: arena <match|bench|tournament> [flags]")
	fmt.Fprintf(w, "agents: %s\n", strings.Join(agent.Names(), ", "))
}

// loadConfig reads the config file when given, the environment otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadEnv()
	}

	return config.Load(path)
}

func (that *cli) runMatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(that.stderr)
	black := fs.String("black", agent.RandomName, "black agent: "+strings.Join(agent.Names(), "|"))
	white := fs.String("white", agent.GreedyName, "white agent: "+strings.Join(agent.Names(), "|"))
	printBoard := fs.Bool("print-board", false, "print board after each move")
	record := fs.Bool("record", false, "store the finished match in redis")
	configPath := fs.String("config", "", "config file, environment only when empty")

	var seed seedFlag
	fs.Var(&seed, "seed", "seed for random agents (black uses seed, white seed+1)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	conf, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	log := logger.New(that.stderr, conf.LogLevel)

	blackAgent, whiteAgent, err := newPair(*black, *white, seed.value, that.in, that.stderr)
	if err != nil {
		return err
	}

	runner := match.NewRunner(log, conf.Game.BoardSize, conf.Game.MaxIllegalRetries)
	if *printBoard {
		runner = runner.WithObserver(func(game *gomoku.Game, _ entity.Move) {
			that.printer.PrintBoard(game.Board())
		})
	}

	result, err := runner.Play(ctx, blackAgent, whiteAgent)
	if err != nil {
		return err
	}

	that.printer.PrintResult(result)

	if *record {
		return recordMatch(ctx, log, conf, result)
	}

	return nil
}

// newPair builds both agents; a manual agent reads from in and prompts on out.
func newPair(black, white string, seed *int64, in io.Reader, out io.Writer) (gomoku.Agent, gomoku.Agent, error) {
	blackOpts := agent.Options{In: in, Out: out}
	whiteOpts := agent.Options{In: in, Out: out}
	if seed != nil {
		blackOpts.Seed = agent.SeedFrom(*seed)
		whiteOpts.Seed = agent.SeedFrom(*seed + 1)
	}

	blackAgent, err := agent.New(black, blackOpts)
	if err != nil {
		return nil, nil, err
	}

	whiteAgent, err := agent.New(white, whiteOpts)
	if err != nil {
		return nil, nil, err
	}

	return blackAgent, whiteAgent, nil
}

func recordMatch(ctx context.Context, log *slog.Logger, conf *config.Config, result match.Result) error {
	client, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = client.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	record := &entity.MatchRecord{
		ID:         uuid.NewString(),
		Black:      result.Black,
		White:      result.White,
		BoardSize:  conf.Game.BoardSize,
		Winner:     result.Winner,
		Moves:      result.Moves,
		FinishedAt: time.Now().UTC(),
	}

	if err = repository.NewMatchRepository(client).Save(ctx, record); err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}

	log.Info("match recorded", "matchID", record.ID)

	return nil
}

func (that *cli) runBench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(that.stderr)
	black := fs.String("black", agent.RandomName, "black agent")
	white := fs.String("white", agent.GreedyName, "white agent")
	games := fs.Int("games", 100, "number of games")
	swapSides := fs.Bool("swap-sides", false, "alternate colors each game")
	workers := fs.Int("workers", 0, "parallel games, number of CPUs when 0")
	csvPath := fs.String("csv", "", "write per-game results CSV")
	configPath := fs.String("config", "", "config file, environment only when empty")

	var seed seedFlag
	fs.Var(&seed, "seed", "base seed for reproducibility")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	conf, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	log := logger.New(that.stderr, conf.LogLevel)
	runner := match.NewRunner(log, conf.Game.BoardSize, conf.Game.MaxIllegalRetries)

	stats, rows, err := runner.Benchmark(ctx, match.BenchConfig{
		Black:     *black,
		White:     *white,
		Games:     *games,
		Seed:      seed.value,
		SwapSides: *swapSides,
		Workers:   *workers,
	})
	if err != nil {
		return err
	}

	that.printer.PrintBenchmark(*black, *white, stats)

	if *csvPath == "" {
		return nil
	}

	return writeCSV(*csvPath, rows)
}

func writeCSV(path string, rows []match.GameRow) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close csv: %w", closeErr)
		}
	}()

	return match.WriteCSV(file, rows)
}

func (that *cli) runTournament(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tournament", flag.ContinueOnError)
	fs.SetOutput(that.stderr)
	agents := fs.String("agents", "random,greedy", "comma separated agent names")
	gamesPerPair := fs.Int("games-per-pair", 2, "games for every pair of agents")
	seed := fs.Int64("seed", 0, "base seed")
	configPath := fs.String("config", "", "config file, environment only when empty")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	conf, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	var names []string
	for _, name := range strings.Split(*agents, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	if len(names) < 2 {
		return fmt.Errorf("%w: %w", errUsage, match.ErrNotEnoughAgents)
	}

	log := logger.New(that.stderr, conf.LogLevel)
	runner := match.NewRunner(log, conf.Game.BoardSize, conf.Game.MaxIllegalRetries)

	standings, err := runner.Tournament(ctx, names, *gamesPerPair, *seed)
	if err != nil {
		return err
	}

	that.printer.PrintStandings(standings)

	return nil
}
