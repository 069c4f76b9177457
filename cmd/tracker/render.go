package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"jobmate/job-tracker/internal/match"
	"jobmate/job-tracker/internal/status"
)

func renderTable(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// postedLabel mirrors the listing cards: Today, 1 day ago, N days ago.
func postedLabel(days *int) string {
	switch {
	case days == nil:
		return "-"
	case *days == 0:
		return "Today"
	case *days == 1:
		return "1 day ago"
	default:
		return strconv.Itoa(*days) + " days ago"
	}
}

func scoreLabel(score *int) string {
	if score == nil {
		return "-"
	}
	text := fmt.Sprintf("%d%%", *score)
	switch match.Band(*score) {
	case "high":
		return pterm.FgGreen.Sprint(text)
	case "medium":
		return pterm.FgYellow.Sprint(text)
	case "neutral":
		return pterm.FgCyan.Sprint(text)
	default:
		return pterm.FgGray.Sprint(text)
	}
}

func statusLabel(s status.Status) string {
	switch status.Slug(s) {
	case "applied":
		return pterm.FgBlue.Sprint(s)
	case "rejected":
		return pterm.FgRed.Sprint(s)
	case "selected":
		return pterm.FgGreen.Sprint(s)
	default:
		return string(s)
	}
}

// whenLabel renders an ISO timestamp relative to now, e.g. "3 hours ago".
func whenLabel(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return humanize.Time(t)
}
