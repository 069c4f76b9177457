package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show or change the application status of a job",
}

var statusGetCmd = &cobra.Command{
	Use:   "get <job-id>",
	Short: "Show the status of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseJobID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.svc.Status(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("job %d: %w", id, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), statusLabel(st))
		return nil
	},
}

var statusSetCmd = &cobra.Command{
	Use:     "set <job-id> <status>",
	Short:   "Change the status of a job",
	Example: `  tracker status set 12 Applied
  tracker status set 12 Not Applied`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseJobID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.svc.SetStatus(cmd.Context(), id, strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("job %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Status updated: %s\n", statusLabel(st))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent status changes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		entries := a.svc.History(cmd.Context())
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No status changes yet.")
			return nil
		}
		data := pterm.TableData{{"Job", "Title", "Company", "Status", "When"}}
		for _, e := range entries {
			data = append(data, []string{
				strconv.Itoa(e.JobID), e.Title, e.Company, statusLabel(e.Status), whenLabel(e.DateChanged),
			})
		}
		return renderTable(cmd.OutOrStdout(), data)
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <job-id>",
	Short: "Bookmark a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggleSaved(cmd, args[0], true)
	},
}

var unsaveCmd = &cobra.Command{
	Use:   "unsave <job-id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggleSaved(cmd, args[0], false)
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List bookmarked jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		cards := a.svc.SavedJobs(cmd.Context())
		if len(cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved jobs.")
			return nil
		}
		return renderTable(cmd.OutOrStdout(), cardTable(cards))
	},
}

func init() {
	statusCmd.AddCommand(statusGetCmd, statusSetCmd)
	rootCmd.AddCommand(statusCmd, historyCmd, saveCmd, unsaveCmd, savedCmd)
}

func runToggleSaved(cmd *cobra.Command, arg string, save bool) error {
	id, err := parseJobID(arg)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var changed bool
	if save {
		changed, err = a.svc.SaveJob(cmd.Context(), id)
	} else {
		changed, err = a.svc.UnsaveJob(cmd.Context(), id)
	}
	if err != nil {
		return fmt.Errorf("job %d: %w", id, err)
	}

	switch {
	case save && changed:
		fmt.Fprintf(cmd.OutOrStdout(), "Saved job %d\n", id)
	case save:
		fmt.Fprintf(cmd.OutOrStdout(), "Job %d is already saved\n", id)
	case changed:
		fmt.Fprintf(cmd.OutOrStdout(), "Removed job %d from saved\n", id)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Job %d was not saved\n", id)
	}
	return nil
}
