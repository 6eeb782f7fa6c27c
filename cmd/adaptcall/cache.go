package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"adaptcall/internal/adaptcache"
)

const cacheApp = "adaptcall"

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the on-disk wrapper-shape cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many wrapper shapes are cached on disk",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Invalidate every cached wrapper shape",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	dc, err := adaptcache.OpenDefault(cacheApp)
	if err != nil {
		return fmt.Errorf("open disk cache: %w", err)
	}
	stats, err := dc.Stat()
	if err != nil {
		return fmt.Errorf("stat disk cache: %w", err)
	}

	field := color.New(color.FgCyan)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d\n", field.Sprint("entries"), stats.Entries)
	fmt.Fprintf(out, "%s %d\n", field.Sprint("promoted"), stats.Promoted)
	fmt.Fprintf(out, "%s %d bytes\n", field.Sprint("total_size"), stats.TotalSize)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	dc, err := adaptcache.OpenDefault(cacheApp)
	if err != nil {
		return fmt.Errorf("open disk cache: %w", err)
	}
	if err := dc.DropAll(); err != nil {
		return fmt.Errorf("drop disk cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
	return nil
}
