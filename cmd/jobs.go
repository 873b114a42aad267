package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"plant_buddy/internal/service"

	"github.com/spf13/cobra"
)

func newRemindCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run one reminder pass now and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			rep := a.services.ReminderJob.RunOnce(cmd.Context(), time.Now())
			return printReport(cmd.OutOrStdout(), rep)
		},
	}
}

func newCheckWeatherCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-weather",
		Short: "Run one weather-risk pass now and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			rep := a.services.WeatherJob.RunOnce(cmd.Context())
			return printReport(cmd.OutOrStdout(), rep)
		},
	}
}

// printReport writes rep as indented JSON and returns its summary error so
// the process exits non-zero when any item failed.
func printReport(w io.Writer, rep *service.BatchReport) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(b)); err != nil {
		return err
	}
	return rep.Error()
}
