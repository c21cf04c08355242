package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbeitszeit/internal/archive"
	"github.com/arbeitszeit/internal/config"
	"github.com/arbeitszeit/internal/visualization"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export today's report to markdown",
	Long: `Write today's session, breaks, totals and the auto-stop log to a markdown
file in the history directory next to the database, or to stdout with --stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		report := archive.Report{
			Session:     trackerService.Session(),
			Summary:     trackerService.Summary(),
			Events:      eventLog.All(),
			GeneratedAt: now,
		}

		if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
			fmt.Print(archive.GenerateMarkdown(report))
			return nil
		}

		path, err := archive.New(historyPath()).ArchiveDay(report)
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

var exportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exported days",
	RunE: func(cmd *cobra.Command, args []string) error {
		archives, err := archive.New(historyPath()).ListArchives()
		if err != nil {
			return err
		}
		if len(archives) == 0 {
			fmt.Println("No exports yet")
			return nil
		}
		for _, a := range archives {
			fmt.Printf("  %s\n", a)
		}
		return nil
	},
}

var exportShowCmd = &cobra.Command{
	Use:   "show <YYYY-MM-DD>",
	Short: "Print an exported day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid format, use YYYY-MM-DD (e.g., 2025-01-31)")
		}
		content, err := archive.New(historyPath()).ReadArchive(day)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Render today as an SVG timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		svg := visualization.New().GenerateDaySVG(
			trackerService.Session(), trackerService.Summary(), trackerService.Plan(), time.Now())

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			fmt.Println(svg)
			return nil
		}
		if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("Timeline written to %s\n", output)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file:  %s\n", configPath)
		fmt.Printf("Database:     %s\n", cfg.DatabasePath)
		fmt.Printf("Plan:         %s\n", cfg.Plan)
		fmt.Printf("Planned work: %s\n", hm(cfg.PlannedWork))
		fmt.Printf("Cache size:   %d\n", cfg.CacheSize)
		fmt.Printf("Log level:    %s\n", cfg.LogLevel)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the configuration file with the built-in plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Plans) == 0 {
			for _, p := range trackerService.Plans() {
				cfg.Plans = append(cfg.Plans, config.PlanConfig{
					Name:  p.Name,
					Start: fmt.Sprintf("%02d:%02d", p.Start/60, p.Start%60),
					End:   fmt.Sprintf("%02d:%02d", p.End/60, p.End%60),
					Max:   p.Max,
				})
			}
		}
		if err := config.SaveTo(cfg, configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Configuration written to %s\n", configPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().Bool("stdout", false, "Print instead of writing a file")
	exportCmd.AddCommand(exportListCmd)
	exportCmd.AddCommand(exportShowCmd)

	timelineCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")

	configCmd.AddCommand(configInitCmd)
}
