package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kilupskalvis/gitsim/internal/core"
	"github.com/kilupskalvis/gitsim/internal/render"
	"github.com/kilupskalvis/gitsim/internal/shell"
	"github.com/kilupskalvis/gitsim/internal/tui"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive simulator",
	Long: `Start the interactive simulator. Commands are typed at a prompt and the
commit graph is redrawn after each one. Use ↑ and ↓ to recall earlier lines.

With --plain the simulator reads lines from standard input and prints plain
output, which suits pipes and terminals without cursor control.`,
	Run: runRepl,
}

var (
	replPlain     bool
	replNoHistory bool
)

func init() {
	replCmd.Flags().BoolVar(&replPlain, "plain", false, "Use a line-based prompt instead of the full-screen interface")
	replCmd.Flags().BoolVar(&replNoHistory, "no-history", false, "Do not read or save command history")
}

func runRepl(cmd *cobra.Command, args []string) {
	var c *cmdContext
	if replNoHistory {
		c = initContext()
	} else {
		c = initContextWithHistory()
	}
	defer c.Close()

	sess := c.NewSession()

	if replPlain {
		if err := plainRepl(sess, c.historyStore(), os.Stdin, os.Stdout); err != nil {
			exitError("%v", err)
		}
		return
	}

	if err := tui.Run(sess, c.historyStore()); err != nil {
		exitError("%v", err)
	}
}

// historyStore returns the store as a tui.HistoryStore, nil when history is off
func (c *cmdContext) historyStore() tui.HistoryStore {
	if c.Store == nil {
		return nil
	}
	return c.Store
}

// plainRepl reads commands from r until EOF or "exit", printing results and
// the redrawn graph to w.
func plainRepl(sess *core.Session, history tui.HistoryStore, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for {
		promptColor.Fprint(w, "$ ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		if history != nil {
			if _, err := history.AppendCommand(line); err != nil {
				errorColor.Fprintf(w, "history: %v\n", err)
			}
		}

		res := shell.Execute(sess, line)
		if res.ClearLog {
			fmt.Fprint(w, "\033[H\033[2J")
			continue
		}
		printResult(w, line, res, false)
		if len(res.Events) > 0 {
			fmt.Fprintln(w, render.Text(sess.Snapshot(), render.DefaultCanvasOptions()).Colored())
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
