package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jaziel8910/weaver-vault/internal/identity"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Verify and display signed profile cards",
}

var cardVerifyCmd = &cobra.Command{
	Use:   "verify <card>",
	Short: "Check a profile card's signature offline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := cardArg(args)
		if err != nil {
			return err
		}
		if _, err := identity.VerifyCard(card); err != nil {
			fmt.Println(failMsg("card is invalid"))
			os.Exit(1)
		}
		fmt.Println(okMsg("signature valid"))
		return nil
	},
}

var cardShowCmd = &cobra.Command{
	Use:   "show <card>",
	Short: "Verify a profile card and print its profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := cardArg(args)
		if err != nil {
			return err
		}
		friend, err := identity.VerifyCard(card)
		if err != nil {
			fmt.Println(failMsg("card is invalid"))
			os.Exit(1)
		}
		fmt.Println(okMsg("signature valid"))
		fmt.Printf("  user:    %s (%s)\n", friend.Username, friend.UserID)
		if friend.Status != "" {
			fmt.Printf("  status:  %s\n", friend.Status)
		}
		if friend.AvatarURL != "" {
			fmt.Printf("  avatar:  %s\n", friend.AvatarURL)
		}
		return nil
	},
}

// cardArg takes the card from the argument or, when absent, from stdin so
// long cards can be piped.
func cardArg(args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("no card given and stdin unreadable: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	cardCmd.AddCommand(cardVerifyCmd)
	cardCmd.AddCommand(cardShowCmd)
}
