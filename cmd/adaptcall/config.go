package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"adaptcall/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the adaptation layer's tunables",
}

var configShowCmd = &cobra.Command{
	Use:   "show [manifest.toml]",
	Short: "Print the effective configuration",
	Long:  "Print the effective [adapt] configuration: the compiled-in defaults, or a manifest's overrides merged onto them when a path is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigShow,
}

func init() {
	configShowCmd.Flags().Bool("json", false, "emit as JSON instead of a formatted table")
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("get json flag: %w", err)
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Adapt)
	}

	field := color.New(color.FgCyan)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d\n", field.Sprint("coercion_iteration_cap"), cfg.Adapt.CoercionIterationCap)
	fmt.Fprintf(out, "%s %t\n", field.Sprint("emit_fast_follower_checks"), cfg.Adapt.EmitFastFollowerChecks)
	fmt.Fprintf(out, "%s %t\n", field.Sprint("auto_copy_default_constructor_fields"), cfg.Adapt.AutoCopyDefaultConstructorFields)
	return nil
}
