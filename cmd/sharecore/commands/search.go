package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/adc-share/sharecore/internal/cli/output"
	"github.com/adc-share/sharecore/internal/searchresponder"
	"github.com/adc-share/sharecore/internal/telemetry"
	"github.com/adc-share/sharecore/pkg/config"
	"github.com/adc-share/sharecore/pkg/hub"
	"github.com/adc-share/sharecore/pkg/search"
	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	searchMaxResults int
	searchFilesOnly  bool
	searchDirsOnly   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Run an ADC-style query against a freshly scanned share index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tree, err := buildTree(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		includeLower := make([]string, len(args))
		for i, term := range args {
			includeLower[i] = strings.ToLower(term)
		}

		query := search.NewQuery(includeLower, nil)
		query.MaxResults = searchMaxResults
		switch {
		case searchFilesOnly:
			query.ItemType = search.ItemFile
		case searchDirsOnly:
			query.ItemType = search.ItemDirectory
		default:
			query.ItemType = search.ItemAny
		}

		_, span := telemetry.StartSearchSpan(cmd.Context(), strings.Join(args, " "), telemetry.FSOperation(itemTypeLabel(query.ItemType)))
		start := time.Now()

		manager := search.NewManager()
		responder := searchresponder.New(manager, tree)
		profiles := allConfiguredProfiles(cfg)
		hits, searchStats := responder.OnIncomingSearch(hub.InboundQuery{
			Matcher:            query,
			IncludeTokensLower: includeLower,
			Profiles:           profiles,
			MaxResults:         query.MaxResults,
		})

		elapsed := time.Since(start).Seconds()
		span.SetAttributes(telemetry.FSCount(len(hits)))
		span.End()
		stats.ObserveSearch(itemTypeLabel(query.ItemType), len(hits), elapsed)

		if searchStats.Filtered {
			fmt.Fprintln(cmd.OutOrStdout(), "0 result(s) (bloom filter rejected every include token)")
			return nil
		}

		table := output.NewTableData("SCORE", "PATH", "SIZE", "TTH")
		for _, hit := range hits {
			table.AddRow(hitRow(hit)...)
		}
		if err := output.PrintTable(cmd.OutOrStdout(), table); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d result(s)\n", len(hits))
		return nil
	},
}

// allConfiguredProfiles returns the union of every share root's
// profile set, so a local CLI query sees everything a fully-open
// client would.
func allConfiguredProfiles(cfg *config.Config) sharetree.ProfileTokenSet {
	profiles := sharetree.NewProfileTokenSet()
	for _, root := range cfg.Shares {
		for _, p := range root.Profiles {
			profiles.Add(sharetree.ProfileToken(p))
		}
	}
	return profiles
}

func itemTypeLabel(t search.ItemType) string {
	switch t {
	case search.ItemFile:
		return "file"
	case search.ItemDirectory:
		return "directory"
	default:
		return "any"
	}
}

// hitRow renders a SearchHit as one output.TableData row: score, ADC
// path, size, and TTH (directories report neither size nor TTH).
func hitRow(hit sharetree.SearchHit) []string {
	switch hit.Type {
	case sharetree.HitFile:
		return []string{
			fmt.Sprintf("%.3f", hit.Score),
			hit.File.AdcPath(),
			humanize.Bytes(uint64(hit.File.Size)),
			hit.File.TTH.String(),
		}
	case sharetree.HitDirectory:
		return []string{
			fmt.Sprintf("%.3f", hit.Score),
			hit.Directory.AdcPathUnsafe(),
			"-",
			"-",
		}
	}
	return nil
}

func init() {
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 10, "maximum number of results to return")
	searchCmd.Flags().BoolVar(&searchFilesOnly, "files", false, "match files only")
	searchCmd.Flags().BoolVar(&searchDirsOnly, "directories", false, "match directories only")
	rootCmd.AddCommand(searchCmd)
}
