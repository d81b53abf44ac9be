package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/pieceset"
	"github.com/domino14/dropblox/solver"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoBoard           = errors.New("please load a game state or start a new game first")
)

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config *config.Config
	solver *solver.Solver
	pieces *pieceset.PieceSet

	board    *board.Board
	curPlays []*solver.Play
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, c := range commands {
		items = append(items, readline.PcItem(c))
	}
	return readline.NewPrefixCompleter(items...)
}

func NewShellController(cfg *config.Config) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mdropblox>\033[0m ",
		HistoryFile:     "/tmp/dropblox-readline.tmp",
		AutoComplete:    completer(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc, err := newController(cfg, l.Stderr())
	if err != nil {
		l.Close()
		return nil, err
	}
	sc.l = l
	return sc, nil
}

func newController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	pieces, err := pieceset.Load(cfg.GetString(config.ConfigPiecesFile), cfg.GetInt(config.ConfigCols))
	if err != nil {
		return nil, err
	}
	return &ShellController{
		out:    out,
		config: cfg,
		solver: solver.NewFromConfig(cfg),
		pieces: pieces,
	}, nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its positional arguments and
// its -option value pairs. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		// negative numbers are arguments, not options.
		if _, err := strconv.ParseFloat(fields[i], 64); err == nil || !strings.HasPrefix(fields[i], "-") {
			args = append(args, fields[i])
			continue
		}
		if i+1 >= len(fields) {
			return nil, errWrongOptionSyntax
		}
		options[strings.TrimPrefix(fields[i], "-")] = fields[i+1]
		i++
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// Execute runs one line of input and prints its output.
func (sc *ShellController) Execute(ctx context.Context, line string) {
	cmd, err := extractFields(line)
	if err == errNoData {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	resp, err := sc.dispatch(ctx, cmd)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()
	ctx := log.Logger.WithContext(context.Background())

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(ctx, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}
