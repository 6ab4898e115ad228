package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/version"
)

var (
	versionFormat   string
	versionShowFull bool
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show vw build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			fmt.Printf("vw %s\n", version.Version)
			if versionShowFull {
				if version.GitCommit != "" {
					fmt.Printf("commit: %s\n", version.GitCommit)
				}
				if version.BuildDate != "" {
					fmt.Printf("built: %s\n", version.BuildDate)
				}
			}
			return nil
		case "json":
			payload := versionPayload{
				Tool:    "vw",
				Version: version.Version,
			}
			if versionShowFull {
				payload.GitCommit = version.GitCommit
				payload.BuildDate = version.BuildDate
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		default:
			return fmt.Errorf("unknown format %q (want pretty or json)", versionFormat)
		}
	},
}
