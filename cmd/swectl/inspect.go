package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <vault.swe>",
	Short: "Open a vault file and report version, account and library counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sealed, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		s, cleanup := startSpinner("Deriving key and decrypting...")
		res, err := bundle.Open(sealed, password, confirmLegacy)
		if err != nil {
			s.FinalMSG = failMsg("could not open " + color.YellowString(args[0]) + ": " + err.Error())
			cleanup()
			return nil
		}
		s.FinalMSG = okMsg("opened " + color.YellowString(args[0]))
		cleanup()

		b := res.Bundle
		acct := b.Settings.Account
		fmt.Printf("  version:    %d (current %d)\n", b.Version, bundle.CurrentVersion)
		fmt.Printf("  account:    %s (%s)\n", acct.Username, acct.UserID)
		fmt.Printf("  rank:       %s, %d weaverins\n", acct.Rank, acct.Weaverins)
		fmt.Printf("  stories:    %d\n", len(b.Stories))
		fmt.Printf("  presets:    %d\n", len(b.Presets))
		fmt.Printf("  universes:  %d\n", len(b.Universes))
		fmt.Printf("  questions:  %d configured\n", len(acct.SecurityQuestions))
		if acct.Passkey != nil {
			fmt.Printf("  passkey:    bound (%s)\n", acct.Passkey.CredentialID)
		} else {
			fmt.Println("  passkey:    not bound")
		}
		if len(res.Disabled) > 0 {
			fmt.Println(color.YellowString("!") + " compatibility mode, disabled: " + fmt.Sprint(res.Disabled))
		}
		return nil
	},
}
