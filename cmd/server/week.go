package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/weekly-tracker/backend/internal/calendar"
	"github.com/weekly-tracker/backend/internal/navigation"
)

// staticZone serves one engine without touching the database.
type staticZone struct {
	engine *calendar.Engine
}

func (z staticZone) Engine() (*calendar.Engine, error) {
	return z.engine, nil
}

func newWeekCmd(f *serverFlags) *cobra.Command {
	var shift int

	cmd := &cobra.Command{
		Use:   "week [target]",
		Short: "Print the week key and label for a date or instant",
		Long: `Prints the Monday-start week containing target (an RFC 3339 instant,
a local date-time or YYYY-MM-DD), or the current week when target is omitted.
The timezone comes from --timezone, then the config file, then the default.`,
		Example: `  weekly-tracker week
  weekly-tracker week 2025-08-17T23:30:00-04:00 --timezone America/New_York
  weekly-tracker week 2024-12-31 --shift -1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}

			engine, err := calendar.LoadEngine(cfg.DefaultTimezone)
			if err != nil {
				return err
			}
			svc := navigation.NewService(staticZone{engine: engine})

			target := ""
			if len(args) == 1 {
				target = args[0]
			}

			res, err := svc.CurrentWeek(target)
			if err != nil {
				return err
			}
			if shift != 0 {
				_, key, err := engine.AddWeeks(res.WeekKey.String(), shift)
				if err != nil {
					return err
				}
				display, err := engine.FormatWeekDisplay(key.String())
				if err != nil {
					return err
				}
				res.WeekKey, res.Display = key, display
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", res.WeekKey, res.Display)
			fmt.Fprintf(out, "timezone: %s  server time: %s\n", res.Timezone, res.ServerTime.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&shift, "shift", 0, "Move the result this many weeks forward (negative for back)")

	return cmd
}
