package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gitsim/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gitsim configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default " + config.ConfigFile,
	Long: `Write the built-in configuration to ` + config.ConfigFile + ` in dir (default:
the current directory). Fails if the file already exists.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := config.Initialize(dir)
	if err != nil {
		exitError("%v", err)
	}
	color.New(color.FgGreen).Printf("Created %s\n", cfg.Path())
}

func runConfigShow(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := showConfig(os.Stdout, c.Config); err != nil {
		exitError("%v", err)
	}
}

// showConfig writes where cfg came from followed by its TOML form
func showConfig(w io.Writer, cfg *config.Config) error {
	source := cfg.Path()
	if source == "" {
		source = "built-in defaults"
	}
	color.New(color.FgYellow).Fprintf(w, "# %s\n", source)

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
