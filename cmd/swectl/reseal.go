package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
)

var resealOut string

var resealCmd = &cobra.Command{
	Use:   "reseal <vault.swe>",
	Short: "Change the password a vault file is sealed under",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sealed, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		current, err := readPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm new password: ")
		if err != nil {
			return err
		}
		if next != confirm {
			s, cleanup := startSpinner("")
			s.FinalMSG = failMsg("new passwords do not match")
			cleanup()
			return nil
		}

		s, cleanup := startSpinner("Resealing vault...")
		defer cleanup()
		res, err := bundle.Open(sealed, current, confirmLegacy)
		if err != nil {
			s.FinalMSG = failMsg("could not open vault: " + err.Error())
			return nil
		}
		out, err := bundle.Seal(res.Bundle, next)
		if err != nil {
			s.FinalMSG = failMsg("reseal failed: " + err.Error())
			return nil
		}

		dest := resealOut
		if dest == "" {
			dest = args[0]
		}
		if err := os.WriteFile(dest, out, 0o600); err != nil {
			s.FinalMSG = failMsg("write failed: " + err.Error())
			return nil
		}
		s.FinalMSG = okMsg("resealed to " + color.YellowString(dest))
		return nil
	},
}

func init() {
	resealCmd.Flags().StringVarP(&resealOut, "out", "o", "", "write to this path instead of overwriting")
}
