package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/kilupskalvis/gitsim/internal/render"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [script]",
	Short: "Render the graph a script produces",
	Long: `Execute a script of git commands silently and render the resulting
commit graph as SVG or as text. Failing commands are reported on standard
error and do not stop the run.

Examples:
  gitsim render demo.txt -o demo.svg
  gitsim render --format text < demo.txt`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRender,
}

var (
	renderFormat  string
	renderOutput  string
	renderColumns int
	renderRows    int
)

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "svg", "Output format: svg or text")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write to file instead of standard output")
	renderCmd.Flags().IntVar(&renderColumns, "column-units", 0, "Layout units per text column (text format)")
	renderCmd.Flags().IntVar(&renderRows, "row-units", 0, "Layout units per text row (text format)")
}

func runRender(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	in, closeIn, err := openScript(args)
	if err != nil {
		exitError("%v", err)
	}
	defer closeIn()

	sess := c.NewSession()
	sr, err := runScript(sess, in, nil, false)
	if err != nil {
		exitError("%v", err)
	}
	if sr.Failures > 0 {
		errorColor.Fprintf(os.Stderr, "%d of %d commands failed\n", sr.Failures, sr.Lines)
	}

	opts := render.CanvasOptions{ColumnUnits: renderColumns, RowUnits: renderRows}
	data, err := renderGraph(sess.Snapshot(), renderFormat, c.Config.LayoutParams(), opts, renderOutput == "")
	if err != nil {
		exitError("%v", err)
	}

	if renderOutput == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(renderOutput, data, 0644); err != nil {
		exitError("failed to write %s: %v", renderOutput, err)
	}
	fmt.Printf("Wrote %s\n", renderOutput)
}

// renderGraph renders snap in the named format. Colored text is only
// produced for a terminal.
func renderGraph(snap models.GraphSnapshot, format string, params layout.Params, opts render.CanvasOptions, colored bool) ([]byte, error) {
	switch format {
	case "svg":
		return render.SVG(snap, params)
	case "text":
		canvas := render.Text(snap, opts)
		if colored {
			return []byte(canvas.Colored() + "\n"), nil
		}
		return []byte(canvas.String() + "\n"), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want svg or text)", format)
	}
}
