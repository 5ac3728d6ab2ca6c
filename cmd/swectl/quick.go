package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Jaziel8910/weaver-vault/internal/cache"
)

var quickDir string

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Show the quick-access metadata cached on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := quickDir
		if dir == "" {
			dir = defaultCacheDir(loadConfig())
		}
		logger := zerolog.Nop()
		if verbose {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		}
		store := cache.NewFileStore(dir, logger)

		sealed, meta, err := store.Get()
		if errors.Is(err, cache.ErrNoQuickAccess) {
			fmt.Println(failMsg("no quick access data in " + color.YellowString(dir)))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(okMsg("quick access cache in " + color.YellowString(dir)))
		fmt.Printf("  ciphertext:  %d bytes\n", len(sealed))
		if meta.Username != "" {
			fmt.Printf("  username:    %s\n", meta.Username)
		} else {
			fmt.Println("  metadata:    missing or did not match ciphertext")
		}
		if meta.PasskeyCredentialID != "" {
			fmt.Printf("  passkey:     %s\n", meta.PasskeyCredentialID)
		}
		return nil
	},
}

func init() {
	quickCmd.Flags().StringVar(&quickDir, "dir", "", "cache directory (default from swectl.yaml or ~/.local/share/weaver)")
}
