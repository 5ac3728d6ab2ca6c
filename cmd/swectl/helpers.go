package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
)

// cliConfig is the optional ~/.config/swectl.yaml.
type cliConfig struct {
	// CacheDir overrides where the quick-access cache is looked up.
	CacheDir string `yaml:"cacheDir"`
}

func loadConfig() cliConfig {
	cfg := cliConfig{}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	raw, err := os.ReadFile(filepath.Join(home, ".config", "swectl.yaml"))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("!")+" ignoring malformed swectl.yaml: "+err.Error())
		return cliConfig{}
	}
	return cfg
}

func defaultCacheDir(cfg cliConfig) string {
	if cfg.CacheDir != "" {
		return cfg.CacheDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "weaver")
}

// startSpinner shows progress during the slow key-derivation step. Returns
// the spinner and a cleanup func to defer; FinalMSG set before cleanup is
// printed after the spinner line clears.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	if err := s.Color("cyan"); err == nil && !verbose {
		s.Start()
	}
	cleanup := func() {
		final := s.FinalMSG
		s.FinalMSG = ""
		s.Stop()
		if final != "" {
			if !strings.HasSuffix(final, "\n") {
				final += "\n"
			}
			fmt.Print(final)
		}
	}
	return s, cleanup
}

func okMsg(text string) string   { return color.GreenString("✓") + " " + text }
func failMsg(text string) string { return color.RedString("✗") + " " + text }

// readPassword prompts without echo on a terminal and falls back to a plain
// line read when stdin is piped.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", fmt.Errorf("no password on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}

// confirmLegacy prints the compatibility report and asks for a y/N answer.
func confirmLegacy(report bundle.CompatReport) bool {
	fmt.Fprintln(os.Stderr, color.YellowString("!")+" older vault file: "+report.String())
	fmt.Fprint(os.Stderr, "Open in compatibility mode? [y/N]: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
