package agent

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

var (
	ErrNoLegalMoves  = errors.New("no legal moves available")
	ErrUnknownAgent  = errors.New("unknown agent")
	ErrDuplicateName = errors.New("duplicate agent name")
)

// Options carries what a factory may need. A nil Seed asks for a time based seed.
type Options struct {
	Seed   *int64
	In     io.Reader
	Out    io.Writer
	Prompt string
}

type Factory func(opts Options) gomoku.Agent

var registry = map[string]Factory{}

func init() {
	mustRegister(RandomName, func(opts Options) gomoku.Agent {
		return NewRandom(opts.seed())
	})
	mustRegister(GreedyName, func(Options) gomoku.Agent {
		return NewGreedy()
	})
	mustRegister(ManualName, func(opts Options) gomoku.Agent {
		in, out := opts.In, opts.Out
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}

		return NewManual(in, out, opts.Prompt)
	})
}

func mustRegister(name string, factory Factory) {
	key := normalize(name)
	if _, ok := registry[key]; ok {
		panic(fmt.Errorf("%w: %q", ErrDuplicateName, key))
	}

	registry[key] = factory
}

// New builds the agent registered under name, case-insensitively.
func New(name string, opts Options) (gomoku.Agent, error) {
	factory, ok := registry[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q, available: %s", ErrUnknownAgent, name, strings.Join(Names(), ", "))
	}

	return factory(opts), nil
}

// Names returns the registered agent names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Known reports whether name is registered, case-insensitively.
func Known(name string) bool {
	_, ok := registry[normalize(name)]

	return ok
}

// Automated reports whether the agent plays without external input. It says
// nothing about whether the name is registered; see Known.
func Automated(name string) bool {
	return normalize(name) != ManualName
}

// SeedFrom returns a pointer for Options.Seed.
func SeedFrom(seed int64) *int64 {
	return &seed
}

func (that Options) seed() int64 {
	if that.Seed == nil {
		return time.Now().UnixNano()
	}

	return *that.Seed
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
