package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gitsim/internal/core"
	"github.com/kilupskalvis/gitsim/internal/shell"
)

var (
	promptColor = color.New(color.FgCyan)
	errorColor  = color.New(color.FgRed)
)

// printResult writes one transcript entry: the echoed line and what it produced
func printResult(w io.Writer, line string, res shell.Result, echo bool) {
	if echo {
		promptColor.Fprint(w, "$ ")
		fmt.Fprintln(w, line)
	}

	text := res.Text()
	if text == "" {
		return
	}
	if res.Err != nil {
		errorColor.Fprintln(w, text)
		return
	}
	fmt.Fprintln(w, text)
}

// scriptResult summarizes a script run
type scriptResult struct {
	Lines    int // command lines executed, excluding blanks and comments
	Failures int
}

// runScript executes every line of r against sess. Blank lines and lines
// starting with # are skipped. Output goes to w unless w is nil. With
// stopOnError the run ends at the first failing line.
func runScript(sess *core.Session, r io.Reader, w io.Writer, stopOnError bool) (scriptResult, error) {
	var sr scriptResult

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		res := shell.Execute(sess, line)
		sr.Lines++
		if w != nil && !res.ClearLog {
			printResult(w, line, res, true)
		}
		if res.Err != nil {
			sr.Failures++
			if stopOnError {
				return sr, fmt.Errorf("line %d: %w", lineNo, res.Err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return sr, fmt.Errorf("failed to read script: %w", err)
	}
	return sr, nil
}
