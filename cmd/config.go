/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/substantialcattle5/findup/internal/config"
	"github.com/substantialcattle5/findup/internal/ui"
	"github.com/substantialcattle5/findup/util"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage findup default settings",
		Long: `Manage the settings findup uses when no flag overrides them.

Settings are stored as YAML in the user config directory, or in the file
given with --config. Flags given on the command line always take precedence.

Example:
  findup config --setup   # Configure settings interactively
  findup config show      # Show the effective settings
  findup config path      # Show where settings are stored
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setup, _ := cmd.Flags().GetBool("setup")
			if !setup {
				return cmd.Help()
			}
			return runConfigSetup(cmd)
		},
	}
	configCmd.Flags().Bool("setup", false, "Configure settings interactively")

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where settings are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := configPath(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return configCmd
}

func runConfigSetup(cmd *cobra.Command) error {
	// #nosec G115 - file descriptors fit in an int
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("interactive setup requires a terminal")
	}

	path, _, err := configPath(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := ui.PromptConfig(cfg); err != nil {
		return fmt.Errorf("configuration failed: %v", err)
	}

	fmt.Println()
	fmt.Println("📋 New Configuration Summary")
	fmt.Println("===========================")
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	fmt.Println()

	confirmPrompt := promptui.Prompt{
		Label:     "Save these settings",
		IsConfirm: true,
		Default:   "y",
	}
	if _, err := confirmPrompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			fmt.Println("Configuration cancelled.")
			return nil
		}
		return fmt.Errorf("confirmation failed: %v", err)
	}

	if _, err := os.Stat(path); err == nil {
		overwrite, err := util.ConfirmOverwrite(path+" exists, overwrite?", os.Stdin, os.Stdout)
		if err != nil {
			return fmt.Errorf("confirmation failed: %v", err)
		}
		if !overwrite {
			fmt.Println("Configuration cancelled.")
			return nil
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %v", err)
	}

	fmt.Printf("✓ Configuration saved to %s\n", path)
	return nil
}
