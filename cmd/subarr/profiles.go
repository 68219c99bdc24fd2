package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/subarr/internal/library"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List language profiles (local)",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <name> <item>...",
	Short: "Add a language profile (local)",
	Long: `Adds a language profile. Each item is a two-letter language code with
optional modifiers:

  en                 English
  en:hi              English for the hearing impaired
  en:forced          English forced subtitles
  fr+audio-exclude   French unless an audio track is already French
  de+audio-only      German only when an audio track is German

Items are numbered from 1 in the order given; --cutoff names one of those
numbers, or "any".`,
	Args: cobra.MinimumNArgs(2),
	RunE: runProfilesAdd,
}

var (
	profileCutoff string
	profileAssign []int64
)

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesAddCmd)
	profilesAddCmd.Flags().StringVar(&profileCutoff, "cutoff", "", `Item number or "any" satisfying the profile`)
	profilesAddCmd.Flags().Int64SliceVar(&profileAssign, "assign", nil, "Series IDs to assign the profile to")
}

// parseProfileItem parses lang[:hi|:forced][+audio-exclude|+audio-only].
func parseProfileItem(s string) (library.ProfileItem, error) {
	var item library.ProfileItem
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for _, mod := range parts[1:] {
		switch mod {
		case "audio-exclude":
			item.AudioExclude = true
		case "audio-only":
			item.AudioOnlyInclude = true
		default:
			return item, fmt.Errorf("item %q: unknown modifier %q", s, mod)
		}
	}
	if item.AudioExclude && item.AudioOnlyInclude {
		return item, fmt.Errorf("item %q: audio-exclude and audio-only are exclusive", s)
	}

	lang, variant, _ := strings.Cut(parts[0], ":")
	if len(lang) != 2 {
		return item, fmt.Errorf("item %q: language must be a two-letter code", s)
	}
	item.Language = lang
	switch variant {
	case "":
	case "hi":
		item.HI = true
	case "forced":
		item.Forced = true
	default:
		return item, fmt.Errorf("item %q: unknown variant %q", s, variant)
	}
	return item, nil
}

func parseCutoff(s string, items int) (*int, error) {
	switch s {
	case "":
		return nil, nil
	case "any":
		v := library.CutoffAny
		return &v, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > items {
		return nil, fmt.Errorf("cutoff must be an item number between 1 and %d, or \"any\"", items)
	}
	return &n, nil
}

// formatItem is the inverse of parseProfileItem.
func formatItem(it library.ProfileItem) string {
	s := it.Language
	switch {
	case it.Forced:
		s += ":forced"
	case it.HI:
		s += ":hi"
	}
	if it.AudioExclude {
		s += "+audio-exclude"
	}
	if it.AudioOnlyInclude {
		s += "+audio-only"
	}
	return s
}

func formatCutoff(c *int) string {
	switch {
	case c == nil:
		return ""
	case *c == library.CutoffAny:
		return "any"
	default:
		return strconv.Itoa(*c)
	}
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	profiles, err := app.Store.ListProfiles()
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, profiles)
	}
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No language profiles")
		return nil
	}

	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		items := make([]string, len(p.Items))
		for j, it := range p.Items {
			items[j] = fmt.Sprintf("%d=%s", it.ID, formatItem(it))
		}
		rows[i] = []string{strconv.FormatInt(p.ID, 10), p.Name, formatCutoff(p.Cutoff), strings.Join(items, " ")}
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Cutoff", "Items"}, rows, []columnAlignment{alignRight}))
	return nil
}

func runProfilesAdd(cmd *cobra.Command, args []string) error {
	profile := &library.Profile{Name: args[0]}
	for _, arg := range args[1:] {
		item, err := parseProfileItem(arg)
		if err != nil {
			return err
		}
		profile.Items = append(profile.Items, item)
	}
	cutoff, err := parseCutoff(profileCutoff, len(profile.Items))
	if err != nil {
		return err
	}
	profile.Cutoff = cutoff

	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := app.Store.AddProfile(profile); err != nil {
		return fmt.Errorf("add profile: %w", err)
	}
	for _, seriesID := range profileAssign {
		if err := app.Store.AssignProfile(seriesID, &profile.ID); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, profile)
	}
	fmt.Fprintf(out, "Added profile %d (%s)\n", profile.ID, profile.Name)
	if len(profileAssign) > 0 {
		fmt.Fprintf(out, "Assigned to %d series; run 'subarr scan series <id>' to refresh missing subtitles\n", len(profileAssign))
	}
	return nil
}
