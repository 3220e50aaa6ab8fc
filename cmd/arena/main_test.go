package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		expected int
	}{
		{name: "no subcommand", args: nil, expected: exitUsage},
		{name: "unknown subcommand", args: []string{"replay"}, expected: exitUsage},
		{name: "help", args: []string{"match", "-h"}, expected: exitOK},
		{name: "bad flag", args: []string{"bench", "-games", "many"}, expected: exitUsage},
		{name: "seeded match", args: []string{"match", "-black", "random", "-white", "greedy", "-seed", "1"}, expected: exitOK},
		{name: "printed match", args: []string{"match", "-black", "greedy", "-white", "greedy", "-print-board"}, expected: exitOK},
		{name: "unknown agent", args: []string{"match", "-black", "foo"}, expected: exitUsage},
		{name: "bench without games", args: []string{"bench", "-games", "0"}, expected: exitUsage},
		{name: "bench with manual agent", args: []string{"bench", "-black", "human", "-games", "2"}, expected: exitUsage},
		{name: "tournament without games", args: []string{"tournament", "-games-per-pair", "0"}, expected: exitUsage},
		{name: "tournament with one agent", args: []string{"tournament", "-agents", "greedy"}, expected: exitUsage},
		{name: "tournament with manual agent", args: []string{"tournament", "-agents", "greedy,human"}, expected: exitUsage},
		{name: "tournament", args: []string{"tournament", "-agents", "random,greedy", "-games-per-pair", "2"}, expected: exitOK},
		{name: "manual input exhausted", args: []string{"match", "-black", "human", "-white", "greedy"}, stdin: "", expected: exitMatch},
		{name: "manual input plays", args: []string{"match", "-black", "human", "-white", "random", "-seed", "3"}, stdin: "0 0\n", expected: exitMatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Given: a small board from the environment
			t.Setenv("GAME_BOARD_SIZE", "9")
			var stdout, stderr bytes.Buffer

			// When: the command runs
			code := run(tc.args, strings.NewReader(tc.stdin), &stdout, &stderr)

			// Then: the exit code follows the error kind
			assert.Equal(t, tc.expected, code, stderr.String())
		})
	}
}

func TestRun_InvalidBoardSize(t *testing.T) {
	t.Setenv("GAME_BOARD_SIZE", "0")
	var stdout, stderr bytes.Buffer

	code := run([]string{"match"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "board size must be positive")
}

func TestRun_MatchOutput(t *testing.T) {
	t.Setenv("GAME_BOARD_SIZE", "9")
	var stdout, stderr bytes.Buffer

	code := run([]string{"match", "-black", "greedy", "-white", "random", "-seed", "0"}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	output := stdout.String()
	assert.True(t, strings.Contains(output, "Winner:") || strings.Contains(output, "Result: DRAW"), output)
}

func TestRun_BenchCSV(t *testing.T) {
	// Given: a bench run writing its per-game report
	t.Setenv("GAME_BOARD_SIZE", "9")
	path := filepath.Join(t.TempDir(), "results.csv")
	var stdout, stderr bytes.Buffer

	// When: four seeded games are played
	code := run([]string{"bench", "-games", "4", "-seed", "0", "-swap-sides", "-csv", path}, strings.NewReader(""), &stdout, &stderr)

	// Then: the summary is printed and the CSV holds a header and one row per game
	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Benchmark complete")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "game,black_agent,white_agent,result", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "1,greedy,random,"), lines[2])
}
