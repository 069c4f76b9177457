package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"jobmate/job-tracker/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change your matching preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		p, ok := a.svc.Preferences(cmd.Context())
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No preferences saved yet; showing defaults.")
		}
		printPrefs(cmd.OutOrStdout(), p)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Update preferences; flags not given keep their saved value",
	Example: `  tracker prefs set --keywords "go, backend" --locations Pune,Remote --min-score 60`,
	Args:    cobra.NoArgs,
	RunE:    runPrefsSet,
}

var prefsFlags struct {
	keywords   string
	locations  []string
	modes      []string
	experience string
	skills     string
	minScore   int
}

func init() {
	f := prefsSetCmd.Flags()
	f.StringVar(&prefsFlags.keywords, "keywords", "", "Comma-separated role keywords")
	f.StringSliceVar(&prefsFlags.locations, "locations", nil, "Preferred locations")
	f.StringSliceVar(&prefsFlags.modes, "modes", nil, "Preferred work modes")
	f.StringVar(&prefsFlags.experience, "experience", "", "Experience level")
	f.StringVar(&prefsFlags.skills, "skills", "", "Comma-separated skills")
	f.IntVar(&prefsFlags.minScore, "min-score", prefs.DefaultMinMatchScore, "Minimum match score (0-100)")

	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsSet(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	p, _ := a.svc.Preferences(cmd.Context())
	f := cmd.Flags()
	if f.Changed("keywords") {
		p.RoleKeywords = prefsFlags.keywords
	}
	if f.Changed("locations") {
		p.PreferredLocations = prefsFlags.locations
	}
	if f.Changed("modes") {
		p.PreferredMode = prefsFlags.modes
	}
	if f.Changed("experience") {
		p.ExperienceLevel = prefsFlags.experience
	}
	if f.Changed("skills") {
		p.Skills = prefsFlags.skills
	}
	if f.Changed("min-score") {
		p.MinMatchScore = prefsFlags.minScore
	}

	saved, err := a.svc.SavePreferences(cmd.Context(), p)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Preferences saved.")
	printPrefs(cmd.OutOrStdout(), saved)
	return nil
}

func printPrefs(w io.Writer, p prefs.Preferences) {
	fmt.Fprintf(w, "Role keywords:  %s\n", p.RoleKeywords)
	fmt.Fprintf(w, "Locations:      %s\n", strings.Join(p.PreferredLocations, ", "))
	fmt.Fprintf(w, "Modes:          %s\n", strings.Join(p.PreferredMode, ", "))
	fmt.Fprintf(w, "Experience:     %s\n", p.ExperienceLevel)
	fmt.Fprintf(w, "Skills:         %s\n", p.Skills)
	fmt.Fprintf(w, "Min match:      %d\n", p.MinMatchScore)
}
