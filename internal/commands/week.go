package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"week-planner/internal/bot"
	"week-planner/internal/week"
)

var dateLayouts = []string{"2006-01-02", "02.01.2006"}

func parseDay(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
}

func addWeek(topLevel *cobra.Command, opts *rootOptions) {
	var offset int
	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Print the week containing date (default today).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now().In(a.loc)
			day := now
			if len(args) == 1 {
				if day, err = parseDay(args[0], a.loc); err != nil {
					return err
				}
			}
			start := week.AddWeeks(week.StartOfWeek(day), offset)

			v, err := bot.LoadWeekView(cmd.Context(), a.svc, start, now)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bot.PlainText(bot.RenderWeek(v, a.loc)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Shift the shown week by this many weeks.")
	topLevel.AddCommand(cmd)
}

func addParity(topLevel *cobra.Command, opts *rootOptions) {
	var date string
	cmd := &cobra.Command{
		Use:   "parity [1|2]",
		Short: "Print the parity of a week, or re-anchor it to the given value.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			day := time.Now().In(a.loc)
			if date != "" {
				if day, err = parseDay(date, a.loc); err != nil {
					return err
				}
			}
			start := week.StartOfWeek(day)

			if len(args) == 1 {
				value, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("parity must be a number: %w", err)
				}
				if err := a.svc.Parity.SetParity(cmd.Context(), start, value); err != nil {
					return err
				}
			}

			parity, err := a.svc.Parity.WeekParity(cmd.Context(), start)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", start.Format("2006-01-02"), parity)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Any day of the week to inspect (default today).")
	topLevel.AddCommand(cmd)
}
