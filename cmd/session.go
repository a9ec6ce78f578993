package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Session helpers",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Print a fresh session ID",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(uuid.NewString())
	},
}

func init() {
	sessionCmd.AddCommand(sessionNewCmd)
}
