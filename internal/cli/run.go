package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/kilupskalvis/gitsim/internal/render"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a script of git commands",
	Long: `Execute a script of git commands, one per line, and print the transcript.
Reads from standard input when no script is given or the script is "-".
Blank lines and lines starting with # are ignored.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

var (
	runStrict bool
	runGraph  bool
	runQuiet  bool
)

func init() {
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Stop at the first failing command and exit with status 1")
	runCmd.Flags().BoolVar(&runGraph, "graph", false, "Draw the commit graph after the script finishes")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Do not print the transcript")
}

func runRun(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	in, closeIn, err := openScript(args)
	if err != nil {
		exitError("%v", err)
	}
	defer closeIn()

	var out io.Writer = os.Stdout
	if runQuiet {
		out = nil
	}

	sess := c.NewSession()
	sr, err := runScript(sess, in, out, runStrict)
	if err != nil {
		exitError("%v", err)
	}
	c.Logger.Debug("script finished", "lines", sr.Lines, "failures", sr.Failures)

	if runGraph {
		fmt.Println(render.Text(sess.Snapshot(), render.DefaultCanvasOptions()).Colored())
	}
}

// openScript opens the script named by args, or standard input
func openScript(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open script: %w", err)
	}
	return f, func() { f.Close() }, nil
}
