package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
	"github.com/Jaziel8910/weaver-vault/internal/codec"
)

var (
	backupOut  string
	backupText bool
)

var backupCmd = &cobra.Command{
	Use:   "backup <vault.swe>",
	Short: "Re-emit a vault file with fresh salt and iv",
	Long: `Opens a vault file and seals it again under the same password. Every seal
draws fresh random encryption parameters, so the output bytes differ from the
input while holding the same contents. With --text the output is the
base64 sync transport instead of raw bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sealed, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		s, cleanup := startSpinner("Writing backup...")
		defer cleanup()
		res, err := bundle.Open(sealed, password, confirmLegacy)
		if err != nil {
			s.FinalMSG = failMsg("could not open vault: " + err.Error())
			return nil
		}
		out, err := bundle.Seal(res.Bundle, password)
		if err != nil {
			s.FinalMSG = failMsg("seal failed: " + err.Error())
			return nil
		}
		if backupText {
			out = []byte(codec.EncodeBase64(out))
		}

		dest := backupOut
		if dest == "" {
			dest = args[0] + ".bak"
		}
		if err := os.WriteFile(dest, out, 0o600); err != nil {
			s.FinalMSG = failMsg("write failed: " + err.Error())
			return nil
		}
		s.FinalMSG = okMsg("backup written to " + color.YellowString(dest))
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVarP(&backupOut, "out", "o", "", "output path (default <input>.bak)")
	backupCmd.Flags().BoolVar(&backupText, "text", false, "emit the base64 sync transport")
}
