// Command wittyctl is a one-shot status tool: it opens the HAT, prints its
// current RTC time, boot reason, programmed alarms, and telemetry reading,
// then exits. It never programs the HAT itself — that is wittygod's job —
// it only reads and reports, the way the original project's bare __main__
// invocation did before the daemon existed.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/wittypi/wittygo/internal/alarm"
	"github.com/wittypi/wittygo/internal/config"
	"github.com/wittypi/wittygo/internal/history"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl:", err)
		return 1
	}

	tz := time.Local
	dev, err := openDevice(fmt.Sprintf("%d", cfg.Bus), uint16(cfg.Addr), tz)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl: opening HAT:", err)
		return 1
	}
	defer dev.Close()

	firmwareID, err := dev.FirmwareID()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl: reading firmware id:", err)
		return 1
	}
	now, err := dev.RTCDateTime()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl: reading RTC:", err)
		return 1
	}
	reason, err := dev.ActionReason()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl: reading action reason:", err)
		return 1
	}
	a1, err := dev.Alarm1()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl: reading alarm1:", err)
		return 1
	}
	a2, err := dev.Alarm2()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl: reading alarm2:", err)
		return 1
	}
	telem, err := dev.ReadTelemetry()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittyctl: reading telemetry:", err)
		return 1
	}

	fmt.Printf("Firmware ID:      0x%02x\n", firmwareID)
	fmt.Printf("RTC time:         %s\n", now.Format(time.RFC3339))
	fmt.Printf("Boot reason:      %s\n", reason)
	fmt.Printf("Alarm1 (startup): %s\n", describeAlarm(a1, now))
	fmt.Printf("Alarm2 (shutdown):%s\n", describeAlarm(a2, now))
	fmt.Printf("Voltage in:       %.2f V\n", telem.VoltageIn)
	fmt.Printf("Voltage out:      %.2f V\n", telem.VoltageOut)
	fmt.Printf("Current out:      %.3f A\n", telem.CurrentOut)
	fmt.Printf("Temperature:      %.1f C\n", telem.Temperature)

	printRecentHistory(cfg.SchedulePath)
	return 0
}

func describeAlarm(fields alarm.Fields, now time.Time) string {
	if fields.Disabled() {
		return " disabled"
	}
	when := alarm.Reconstruct(fields, now)
	if when == nil {
		return " disabled"
	}
	return " " + when.Format(time.RFC3339)
}

// printRecentHistory is best-effort: wittyctl has no schedule document of
// its own to learn the configured history path from, so it falls back to
// the default location next to the current directory and says nothing if
// that file doesn't exist.
func printRecentHistory(_ string) {
	store, err := history.Open("./data/wittygo.db")
	if err != nil {
		return
	}
	defer store.Close()

	events, err := store.Recent(5)
	if err != nil || len(events) == 0 {
		return
	}
	fmt.Println("\nRecent events:")
	for _, e := range events {
		fmt.Printf("  %s  %-14s %s\n", e.CreatedAt.Format(time.RFC3339), e.Kind, e.Detail)
	}
}
