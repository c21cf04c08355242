package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arbeitszeit/internal/breaks"
	"github.com/arbeitszeit/internal/work"
)

var startCmd = &cobra.Command{
	Use:     "start [HH:MM]",
	Aliases: []string{"in"},
	Short:   "Start the work day",
	Long:    `Start tracking today's work, now or at an earlier HH:MM.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at := ""
		if len(args) > 0 {
			at = args[0]
		}
		if err := describe(trackerService.Start(at)); err != nil {
			return err
		}
		s := trackerService.Session()
		fmt.Printf("Started at %s | Plan: %s | Planned: %s\n",
			s.StartTime.Format("15:04"), s.Plan, hm(s.PlannedWork))
		return nil
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Start an unplanned break now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := describe(trackerService.Pause()); err != nil {
			return err
		}
		fmt.Printf("Paused | Worked so far: %s\n", hm(trackerService.Summary().WorkedMinutes))
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "End the current break",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := describe(trackerService.Resume()); err != nil {
			return err
		}
		sum := trackerService.Summary()
		fmt.Printf("Resumed | Breaks: %s | End: %s\n", hm(sum.BreakMinutes), sum.EndTime)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:     "stop",
	Aliases: []string{"out"},
	Short:   "End the work day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := describe(trackerService.Stop()); err != nil {
			return err
		}
		sum := trackerService.Summary()
		fmt.Printf("Stopped | Worked: %s | Breaks: %s\n", hm(sum.WorkedMinutes), hm(sum.BreakMinutes))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show today's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := trackerService.Session()
		sum := trackerService.Summary()
		fmt.Println(renderStatus(s, sum, work.ApproachingLimits(sum.WorkData(), trackerService.Plan())))

		if len(s.Breaks) > 0 {
			fmt.Println(renderBreaks(s.Breaks))
		}
		if check := work.CanUseOverride(sum.WorkData(), overrides.Enabled()); check.CanOverride {
			fmt.Println(warningStyle.Render("Auto-stop override is active"))
		}
		return nil
	},
}

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Manage today's breaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(renderBreaks(trackerService.Session().Breaks))
		return nil
	},
}

var breakAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a planned or scheduled break",
	Long: `Add a break. With --duration only, the break is planned and pushes the
projected end out. With --start and --end it is scheduled at those times.`,
	Example: `  arbeitszeit break add --duration 30
  arbeitszeit break add --start 12:00 --end 12:45`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := breakFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := describe(trackerService.AddBreak(b)); err != nil {
			return err
		}
		fmt.Println(renderBreaks(trackerService.Session().Breaks))
		return nil
	},
}

var breakDeleteCmd = &cobra.Command{
	Use:     "delete <number>",
	Aliases: []string{"rm"},
	Short:   "Delete a break",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := breakIndex(args[0])
		if err != nil {
			return err
		}
		if err := describe(trackerService.DeleteBreak(index)); err != nil {
			return err
		}
		fmt.Println(renderBreaks(trackerService.Session().Breaks))
		return nil
	},
}

var breakSetCmd = &cobra.Command{
	Use:   "set <number>",
	Short: "Change a break's start, end or duration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := breakIndex(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("start") && !flags.Changed("end") && !flags.Changed("duration") {
			return fmt.Errorf("nothing to change, use --start, --end or --duration")
		}

		if flags.Changed("start") {
			start, err := timeFlag(cmd, "start")
			if err != nil {
				return err
			}
			if err := describe(trackerService.UpdateBreakStart(index, start)); err != nil {
				return err
			}
		}
		if flags.Changed("end") {
			end, err := timeFlag(cmd, "end")
			if err != nil {
				return err
			}
			if err := describe(trackerService.UpdateBreakEnd(index, end)); err != nil {
				return err
			}
		}
		if flags.Changed("duration") {
			minutes, _ := flags.GetInt("duration")
			if err := describe(trackerService.UpdateBreakDuration(index, minutes)); err != nil {
				return err
			}
		}
		fmt.Println(renderBreaks(trackerService.Session().Breaks))
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan [name]",
	Short: "Show or switch the work plan",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			if err := describe(trackerService.SetPlan(args[0])); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("work") {
			minutes, _ := cmd.Flags().GetInt("work")
			if err := describe(trackerService.SetPlannedWork(minutes)); err != nil {
				return err
			}
		}

		current := trackerService.Plan()
		for _, p := range trackerService.Plans() {
			marker := " "
			if p.Name == current.Name {
				marker = "*"
			}
			limits := p.Limits()
			fmt.Printf("%s %-10s %s-%s  work max %s, presence max %s\n", marker, p.Name,
				breaks.At(0, p.Start), breaks.At(0, p.End), hm(limits.MaxWorkTime), hm(limits.MaxPresenceTime))
		}
		fmt.Printf("Planned work today: %s\n", hm(trackerService.Session().PlannedWork))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard today's tracked day",
	Long:  `Discard today's session. With --all the auto-stop log and override setting are cleared too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := describe(trackerService.Reset()); err != nil {
			return err
		}
		if all, _ := cmd.Flags().GetBool("all"); all {
			if err := eventLog.Clear(); err != nil {
				return err
			}
			if err := overrides.Clear(); err != nil {
				return err
			}
			fmt.Println("All data cleared")
			return nil
		}
		fmt.Println("Today's session discarded")
		return nil
	},
}

func breakIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid break number: %s", arg)
	}
	return n - 1, nil
}

func timeFlag(cmd *cobra.Command, name string) (breaks.TimeOfDay, error) {
	s, _ := cmd.Flags().GetString(name)
	t, err := breaks.ParseTimeOfDay(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return t, nil
}

func breakFromFlags(cmd *cobra.Command) (breaks.Break, error) {
	flags := cmd.Flags()
	minutes, _ := flags.GetInt("duration")

	var b breaks.Break
	switch {
	case flags.Changed("start") && flags.Changed("end"):
		start, err := timeFlag(cmd, "start")
		if err != nil {
			return b, err
		}
		end, err := timeFlag(cmd, "end")
		if err != nil {
			return b, err
		}
		b = breaks.Between(start, end)
	case flags.Changed("start"):
		start, err := timeFlag(cmd, "start")
		if err != nil {
			return b, err
		}
		if minutes <= 0 {
			return b, fmt.Errorf("--start needs --end or --duration")
		}
		b = breaks.Between(start, start.Add(minutes))
	case flags.Changed("end"):
		return b, fmt.Errorf("--end needs --start")
	default:
		b = breaks.Planned(minutes)
	}
	return b, nil
}

func init() {
	for _, c := range []*cobra.Command{breakAddCmd, breakSetCmd} {
		c.Flags().String("start", "", "Start time (HH:MM)")
		c.Flags().String("end", "", "End time (HH:MM)")
	}
	breakAddCmd.Flags().IntP("duration", "d", 30, "Duration in minutes")
	breakSetCmd.Flags().IntP("duration", "d", 0, "Duration in minutes")

	breakCmd.AddCommand(breakAddCmd)
	breakCmd.AddCommand(breakDeleteCmd)
	breakCmd.AddCommand(breakSetCmd)

	planCmd.Flags().Int("work", 0, "Planned work minutes for today")

	resetCmd.Flags().Bool("all", false, "Also clear the auto-stop log and override setting")
}
