package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jaziel8910/weaver-vault/internal/platform"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "swectl",
	Short: "swectl - maintenance tooling for Weaver vault (.swe) files",
	Long: `swectl inspects and maintains encrypted Weaver vault files offline.

Available Commands:
  inspect    Open a vault file and report its contents
  reseal     Change the password a vault file is sealed under
  backup     Re-emit a vault file with fresh encryption parameters
  card       Verify and display signed profile cards
  quick      Show the quick-access metadata cached on this device

Run 'swectl help <command>' for details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Run 'swectl --help' to see available commands.")
	},
}

func main() {
	if err := platform.DisableCoreDumps(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not disable core dumps:", err)
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resealCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(quickCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
