package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/dropblox/automatic"
	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/equity"
	"github.com/domino14/dropblox/gamestate"
	"github.com/domino14/dropblox/move"
	"github.com/domino14/dropblox/solver"
)

var commands = []string{
	"new", "load", "save", "show", "gen", "eval", "best", "play",
	"autoplay", "set", "help", "exit",
}

func (sc *ShellController) dispatch(ctx context.Context, cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "save":
		return sc.save(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen":
		return sc.generate(ctx, cmd)
	case "eval":
		return sc.eval(cmd)
	case "best":
		return sc.best(ctx, cmd)
	case "play":
		return sc.play(cmd)
	case "autoplay":
		return sc.autoplay(ctx, cmd)
	case "set":
		return sc.set(cmd)
	case "help":
		return sc.help(cmd)
	}
	return nil, fmt.Errorf("command %q not recognized; try help", cmd.cmd)
}

func (sc *ShellController) setBoard(b *board.Board) {
	sc.board = b
	sc.curPlays = nil
}

// advance makes b the current board, dealing a random piece so the preview
// keeps its length.
func (sc *ShellController) advance(b *board.Board) {
	sc.setBoard(b.WithPreview(sc.pieces.Random()))
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	b, err := board.NewEmpty(sc.config.GetInt(config.ConfigRows), sc.config.GetInt(config.ConfigCols),
		sc.pieces.Random(), sc.pieces.Draw(sc.config.GetInt(config.ConfigPreviewSize)))
	if err != nil {
		return nil, err
	}
	sc.setBoard(b)
	return msg(b.ToDisplayText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	data, err := os.ReadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	b, err := gamestate.Parse(data, 0, 0)
	if err != nil {
		return nil, err
	}
	sc.setBoard(b)
	return msg(b.ToDisplayText()), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	data, err := gamestate.Marshal(sc.board)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cmd.args[0], data, 0o644); err != nil {
		return nil, err
	}
	return msg("saved to " + cmd.args[0]), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	return msg(sc.board.ToDisplayText()), nil
}

func playTableHeader() string {
	return "     Pose                Score  Cleared Commands\n"
}

func playTableRow(idx int, p *solver.Play) string {
	return fmt.Sprintf("%3d: %-20s%-7d%-8d%s", idx+1, p.Pose.String(), p.Score,
		p.Result.Cleared(), p.Commands.String())
}

func (sc *ShellController) generate(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	numPlays := 15
	if len(cmd.args) > 0 {
		var err error
		numPlays, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	plays, err := sc.solver.GenAll(ctx, sc.board)
	if err != nil {
		return nil, err
	}
	sc.curPlays = plays

	var sb strings.Builder
	sb.WriteString(playTableHeader())
	for i, p := range plays[:min(numPlays, len(plays))] {
		sb.WriteString(playTableRow(i, p) + "\n")
	}
	fmt.Fprintf(&sb, "%d placements reachable", len(plays))
	return msg(sb.String()), nil
}

// playByIndex looks up a play from the last gen output; idx is 1-based.
func (sc *ShellController) playByIndex(s string) (*solver.Play, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	if len(sc.curPlays) == 0 {
		return nil, errors.New("no generated plays; run gen first")
	}
	if idx < 1 || idx > len(sc.curPlays) {
		return nil, fmt.Errorf("play index must be between 1 and %d", len(sc.curPlays))
	}
	return sc.curPlays[idx-1], nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	b := sc.board
	if len(cmd.args) > 0 {
		p, err := sc.playByIndex(cmd.args[0])
		if err != nil {
			return nil, err
		}
		b = p.Result
	}
	terms := sc.solver.Evaluator().Breakdown(b)
	var sb strings.Builder
	for _, t := range terms {
		fmt.Fprintf(&sb, "%-10s%6d\n", t.Type, t.Score)
	}
	fmt.Fprintf(&sb, "%-10s%6d", "total", lo.SumBy(terms, func(t equity.Term) int { return t.Score }))
	return msg(sb.String()), nil
}

func (sc *ShellController) best(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	p, err := sc.solver.Solve(ctx, sc.board)
	if err != nil {
		return nil, err
	}
	sc.advance(p.Result)
	return msg(playTableRow(0, p) + "\n" + sc.board.ToDisplayText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <n> or play <commands...>")
	}
	var cmds move.Sequence
	if _, err := strconv.Atoi(cmd.args[0]); err == nil {
		p, err := sc.playByIndex(cmd.args[0])
		if err != nil {
			return nil, err
		}
		cmds = p.Commands
	} else {
		var err error
		if cmds, err = move.ParseSequence(cmd.args...); err != nil {
			return nil, err
		}
	}
	nb, err := sc.board.DoCommands(cmds)
	if err != nil {
		return nil, err
	}
	sc.advance(nb)
	return msg(sc.board.ToDisplayText()), nil
}

func (sc *ShellController) autoplay(ctx context.Context, cmd *shellcmd) (*Response, error) {
	games := sc.config.GetInt(config.ConfigAutoplayGames)
	threads := max(1, sc.config.GetInt(config.ConfigThreads))
	var err error
	if v, ok := cmd.options["games"]; ok {
		if games, err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	if v, ok := cmd.options["threads"]; ok {
		if threads, err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	if v, ok := cmd.options["pieces"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		// the limit applies to this run only.
		defer sc.config.Set(config.ConfigAutoplayMax, sc.config.Get(config.ConfigAutoplayMax))
		sc.config.Set(config.ConfigAutoplayMax, n)
	}
	logfile := sc.config.GetString(config.ConfigAutoplayLog)
	if v, ok := cmd.options["file"]; ok {
		logfile = v
	}
	var logw io.Writer
	if logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		logw = f
	}
	summary, err := automatic.PlayGames(ctx, sc.config, games, threads, logw)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := summary.Fprint(&sb); err != nil {
		return nil, err
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.SanitizedSettings()
		keys := lo.Keys(settings)
		slices.Sort(keys)
		var sb strings.Builder
		sb.WriteString("Settings:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %v\n", k, settings[k])
		}
		return msg(strings.TrimSuffix(sb.String(), "\n")), nil
	}
	key := cmd.args[0]
	if !slices.Contains(sc.config.AllKeys(), key) {
		return nil, fmt.Errorf("no such setting: %s", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	sc.config.Set(key, cmd.args[1])
	// weights, threads and cache size all live in the solver.
	sc.solver = solver.NewFromConfig(sc.config)
	sc.curPlays = nil
	return msg(fmt.Sprintf("%s set to %v", key, sc.config.Get(key))), nil
}
