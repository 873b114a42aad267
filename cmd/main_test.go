package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"plant_buddy/internal/service"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := "db:\n  path: \"" + filepath.Join(dir, "test.db") + "\"\n" +
		"uploads:\n  dir: \"" + filepath.Join(dir, "uploads") + "\"\n"
	p := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "remind", "check-weather"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered (err=%v)", name, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatalf("missing --config flag")
	}
}

func TestRemindCmd_EmptyDatabasePrintsReport(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", writeTestConfig(t), "remind"})

	if err := root.Execute(); err != nil {
		t.Fatalf("remind: %v", err)
	}

	var rep service.BatchReport
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out.String())
	}
	if rep.Job != service.ReminderJobName || len(rep.Items) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestCheckWeatherCmd_NoKeyFails(t *testing.T) {
	t.Setenv("OPENWEATHER_KEY", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", writeTestConfig(t), "check-weather"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "weather pass aborted") {
		t.Fatalf("expected aborted pass, got %v", err)
	}
	if !strings.Contains(out.String(), `"job": "weather"`) {
		t.Fatalf("report not printed: %s", out.String())
	}
}

func TestPrintReport_FailedItemsReturnError(t *testing.T) {
	rep := &service.BatchReport{
		Job:       service.ReminderJobName,
		StartedAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		Items: []service.ItemResult{
			{ID: "r1", Status: service.ItemOK, Detail: "rescheduled"},
			{ID: "r2", Status: service.ItemFailed, Detail: "notify: broker down", Err: errors.New("broker down")},
		},
	}
	var out bytes.Buffer
	err := printReport(&out, rep)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 items failed") {
		t.Fatalf("expected summary error, got %v", err)
	}
	if !strings.Contains(out.String(), `"status": "failed"`) {
		t.Fatalf("report missing failed item: %s", out.String())
	}
}

func TestPassTimeout(t *testing.T) {
	cases := []struct {
		name     string
		interval time.Duration
		ceiling  time.Duration
		want     time.Duration
	}{
		{"short interval wins", time.Minute, reminderPassTimeout, time.Minute},
		{"ceiling caps long interval", time.Hour, weatherPassTimeout, weatherPassTimeout},
		{"equal", 5 * time.Minute, reminderPassTimeout, reminderPassTimeout},
		{"zero interval keeps ceiling", 0, reminderPassTimeout, reminderPassTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := passTimeout(tc.interval, tc.ceiling); got != tc.want {
				t.Fatalf("passTimeout(%v, %v) = %v, want %v", tc.interval, tc.ceiling, got, tc.want)
			}
		})
	}
}
