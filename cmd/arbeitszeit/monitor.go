package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arbeitszeit/internal/autostop"
	"github.com/arbeitszeit/internal/scheduler"
	"github.com/arbeitszeit/internal/tracker"
	"github.com/arbeitszeit/internal/work"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show live progress and stop work automatically at the limits",
	Long: `Refresh today's progress every second and run the auto-stop monitor until
the day is stopped or the command is interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if trackerService.Session().Status == tracker.StatusStopped {
			return errors.New("work is not running, use start first")
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		timers := scheduler.New()
		defer timers.CancelAll()

		monitor := autostop.NewMonitor(trackerService, overrides, eventLog, timers, logger)
		stopped := make(chan autostop.AutoStopEvent, 1)
		monitor.SetOnStop(func(e autostop.AutoStopEvent) { stopped <- e })
		monitor.SetOnWarning(func(w work.Warning) {
			if w.Active() {
				logger.Warn("approaching limits", "message", w.Message)
			}
		})
		trackerService.SetOnStop(monitor.Stop)
		monitor.Start()
		defer monitor.Stop()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			fmt.Print("\r" + liveLine(trackerService.Summary(), monitor.Warning()))

			select {
			case <-ctx.Done():
				fmt.Println()
				return nil
			case e := <-stopped:
				fmt.Println()
				fmt.Println(idleStyle.Render("Work stopped automatically: " + e.Message))
				fmt.Printf("Acknowledge with: arbeitszeit events ack %s\n", shortID(e.ID))
				return nil
			case <-ticker.C:
				// Pick up changes made by other invocations.
				db.Purge()
				if err := trackerService.Load(); err != nil {
					logger.Warn("reload failed", "error", err)
				}
				if err := overrides.Load(); err != nil {
					logger.Warn("override reload failed", "error", err)
				}
				if trackerService.Ended() || trackerService.Session().Status == tracker.StatusStopped {
					fmt.Println()
					fmt.Println("Work stopped")
					return nil
				}
			}
		}
	},
}

func liveLine(sum tracker.Summary, warning work.Warning) string {
	line := fmt.Sprintf("%s  %-9s  Worked %s  Breaks %s  End %s",
		time.Now().Format("15:04:05"), statusLabel(sum, false), hm(sum.WorkedMinutes), hm(sum.BreakMinutes), sum.EndTime)
	if warning.Active() {
		line += "  " + warningStyle.Render(warning.Message)
	}
	return line + "\033[K"
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent auto-stops",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent := eventLog.Recent()
		if len(recent) == 0 {
			fmt.Println("No auto-stops recorded")
			return nil
		}
		for _, e := range recent {
			ack := warningStyle.Render("new")
			if e.UserAcknowledged {
				ack = "ack"
			}
			fmt.Printf("%s  %-3s  %-16s  %s  worked %s  %s\n",
				shortID(e.ID), ack, humanize.Time(e.Timestamp), e.Reason, hm(e.WorkTime), e.Message)
		}
		return nil
	},
}

var eventsAckCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Acknowledge an auto-stop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := findEvent(args[0])
		if err != nil {
			return err
		}
		if err := eventLog.Acknowledge(id); err != nil {
			return err
		}
		fmt.Printf("Acknowledged %s\n", shortID(id))
		return nil
	},
}

// findEvent resolves a full id or an unambiguous prefix.
func findEvent(arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	var matches []uuid.UUID
	for _, e := range eventLog.All() {
		if strings.HasPrefix(e.ID.String(), strings.ToLower(arg)) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s", autostop.ErrEventNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("id prefix %s is ambiguous", arg)
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Manage the auto-stop override",
	Long: `The override suppresses forced auto-stops. Limit violations are still
detected and warned about, and the override never applies during a break.`,
}

var overrideEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Suppress forced auto-stops",
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		acknowledged, _ := cmd.Flags().GetBool("acknowledge")
		if err := overrides.Enable(reason, acknowledged); err != nil {
			var verr *work.ValidationError
			if errors.As(err, &verr) && verr.Field == "Acknowledged" {
				return fmt.Errorf("%w (pass --acknowledge to confirm you take responsibility for exceeding legal limits)", err)
			}
			return err
		}
		fmt.Println(warningStyle.Render("Auto-stop override enabled"))
		return nil
	},
}

var overrideDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Allow forced auto-stops again",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := overrides.Disable(); err != nil {
			return err
		}
		fmt.Println("Auto-stop override disabled")
		return nil
	},
}

var overrideStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the override setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := overrides.Setting()
		if !s.Usable() {
			fmt.Println("Override: off")
			return nil
		}
		fmt.Printf("Override: on since %s\n", humanize.Time(s.Timestamp))
		if s.Reason != "" {
			fmt.Printf("Reason:   %s\n", s.Reason)
		}
		check := work.CanUseOverride(trackerService.WorkData(), true)
		fmt.Printf("Now:      %s\n", check.Reason)
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsAckCmd)

	overrideEnableCmd.Flags().String("reason", "", fmt.Sprintf("Why the override is needed (max %d characters)", work.MaxOverrideReasonLength))
	overrideEnableCmd.Flags().Bool("acknowledge", false, "Confirm the legal implications")

	overrideCmd.AddCommand(overrideEnableCmd)
	overrideCmd.AddCommand(overrideDisableCmd)
	overrideCmd.AddCommand(overrideStatusCmd)
}
