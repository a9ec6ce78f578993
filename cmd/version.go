package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("nextitem", displayVersion(version))
	},
}

// displayVersion canonicalises release versions ("1.2" becomes "v1.2.0")
// and leaves development builds untouched.
func displayVersion(v string) string {
	if v == "" {
		return "(devel)"
	}
	candidate := v
	if candidate[0] != 'v' {
		candidate = "v" + candidate
	}
	if !semver.IsValid(candidate) {
		return v
	}
	return semver.Canonical(candidate)
}
