package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/service/game"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fourInRow() *domain.Board {
	b := domain.NewBoard()
	for col := 3; col <= 6; col++ {
		b.Place(domain.Move{Row: 7, Col: col}, domain.Black)
		b.Place(domain.Move{Row: 9, Col: col}, domain.White)
	}
	return b
}

func TestBestMoveCommand(t *testing.T) {
	board := writeFile(t, "board.txt", fourInRow().String())
	settings := writeFile(t, "settings.yaml", "searchDepth: 2\ncandidateCount: 4\npatternWeights:\n  liveTwo: 20\n")

	out, err := runCmd(t, "", "bestmove", "--board", board, "--player", "black", "--settings", settings, "--logs")
	require.NoError(t, err)

	var got bestMoveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.NotNil(t, got.Move)
	assert.Contains(t, []domain.Move{{Row: 7, Col: 2}, {Row: 7, Col: 7}}, *got.Move)
	assert.Equal(t, 2, got.Settings.SearchDepth)
	assert.Equal(t, 4, got.Settings.CandidateCount)
	assert.Equal(t, 20.0, got.Settings.PatternWeights["liveTwo"])
	assert.NotEmpty(t, got.Logs)
}

func TestBestMoveCommand_EmptyBoardFromStdin(t *testing.T) {
	out, err := runCmd(t, domain.NewBoard().String(), "bestmove", "--board", "-", "--difficulty", "easy")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Nil(t, got["move"])
}

func TestBestMoveCommand_Errors(t *testing.T) {
	board := writeFile(t, "board.txt", fourInRow().String())
	badYAML := writeFile(t, "bad.yaml", "searchDepth: [\n")
	badBoard := writeFile(t, "short.txt", "...\n")

	_, err := runCmd(t, "", "bestmove", "--board", board, "--player", "green")
	assert.ErrorIs(t, err, domain.ErrInvalidPlayer)

	_, err = runCmd(t, "", "bestmove", "--board", board, "--settings", badYAML)
	assert.Error(t, err)

	_, err = runCmd(t, "", "bestmove", "--board", badBoard)
	assert.ErrorIs(t, err, domain.ErrInvalidBoard)

	_, err = runCmd(t, "", "bestmove")
	assert.Error(t, err, "--board is required")
}

func TestWinnerCommand(t *testing.T) {
	b := fourInRow()
	b.Place(domain.Move{Row: 7, Col: 7}, domain.Black)
	board := writeFile(t, "board.txt", b.String())

	out, err := runCmd(t, "", "winner", "--board", board)

	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"black","winner":1,"terminal":true}`, out)
}

func TestShapesCommand(t *testing.T) {
	board := writeFile(t, "board.txt", fourInRow().String())

	out, err := runCmd(t, "", "shapes", "--board", board)
	require.NoError(t, err)

	var report game.ShapeReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Black.LiveFour)
	assert.Equal(t, 1, report.White.LiveFour)
}
