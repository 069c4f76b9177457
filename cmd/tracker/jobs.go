package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"jobmate/job-tracker/internal/tracker"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List listings scored against your preferences",
	Args:  cobra.NoArgs,
	RunE:  runJobs,
}

var jobsQuery tracker.JobQuery

func init() {
	f := jobsCmd.Flags()
	f.StringVar(&jobsQuery.Sort, "sort", "latest", "Sort order: latest, oldest, company, match, salary")
	f.StringVarP(&jobsQuery.Keyword, "keyword", "k", "", "Match title or company (case-insensitive)")
	f.StringVar(&jobsQuery.Location, "location", "", "Exact location")
	f.StringVar(&jobsQuery.Mode, "mode", "", "Exact work mode")
	f.StringVar(&jobsQuery.Experience, "experience", "", "Exact experience level")
	f.StringVar(&jobsQuery.Source, "source", "", "Exact source")
	f.StringVar(&jobsQuery.Status, "status", "", `Exact status, e.g. "Applied"`)
	f.BoolVar(&jobsQuery.OnlyMatches, "matches", false, "Only show jobs at or above your minimum match score")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	cards, err := a.svc.Jobs(cmd.Context(), jobsQuery)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No jobs match your filters.")
		return nil
	}
	return renderTable(cmd.OutOrStdout(), cardTable(cards))
}

func cardTable(cards []tracker.JobCard) pterm.TableData {
	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Mode", "Posted", "Salary", "Match", "Status", "Saved"}}
	for _, c := range cards {
		saved := ""
		if c.Saved {
			saved = "★"
		}
		data = append(data, []string{
			strconv.Itoa(c.ID),
			c.Title,
			c.Company,
			c.Location,
			c.Mode,
			postedLabel(c.PostedDaysAgo),
			c.SalaryRange,
			scoreLabel(c.MatchScore),
			statusLabel(c.Status),
			saved,
		})
	}
	return data
}
