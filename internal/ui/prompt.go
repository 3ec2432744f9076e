package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"

	"github.com/substantialcattle5/findup/internal/config"
	"github.com/substantialcattle5/findup/internal/constants"
	"github.com/substantialcattle5/findup/util"
)

// PromptConfig asks for scan settings interactively, starting from the values in configuration
func PromptConfig(configuration *config.Config) error {
	fmt.Println("🔧 Configure findup")
	fmt.Println("===================")
	fmt.Println()

	minSize, err := promptInt("Minimum file size in bytes", configuration.MinFileSize, validateNonNegative)
	if err != nil {
		return err
	}
	configuration.MinFileSize = minSize

	prefixSize, err := promptInt("Prefix size in bytes", configuration.PrefixSize, validateNonNegative)
	if err != nil {
		return err
	}
	configuration.PrefixSize = prefixSize

	bufferPrompt := promptui.Prompt{
		Label:     "Read buffer size",
		Default:   configuration.BufferSize,
		AllowEdit: true,
		Validate:  validateSize,
	}
	bufferResult, err := bufferPrompt.Run()
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	configuration.BufferSize = bufferResult

	workers, err := promptInt("Parallel workers", int64(configuration.Workers), validatePositive)
	if err != nil {
		return err
	}
	configuration.Workers = int(workers)

	paranoidPrompt := promptui.Select{
		Label: "Verify duplicates byte-by-byte",
		Items: []string{"no", "yes"},
		Templates: &promptui.SelectTemplates{
			Selected: "Paranoid mode: {{ . }}",
			Active:   "▸ {{ . }} {{ if eq . \"no\" }}(recommended){{ end }}",
			Inactive: "  {{ . }} {{ if eq . \"no\" }}(recommended){{ end }}",
			Details: `
{{ "Details:" | faint }}
{{ if eq . "yes" }}Compare hash-identical files byte-by-byte (slower, immune to hash collisions)
{{ else }}Trust matching CRC-32 and MurmurHash3 digests{{ end }}
`,
		},
	}
	_, paranoidResult, err := paranoidPrompt.Run()
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	configuration.Paranoid = paranoidResult == "yes"

	sortPrompt := promptui.Select{
		Label: "Order of duplicate groups",
		Items: []string{constants.SortByWasted, constants.SortByPath, constants.SortBySize},
		Templates: &promptui.SelectTemplates{
			Selected: "Sort by: {{ . }}",
			Active:   "▸ {{ . }}",
			Inactive: "  {{ . }}",
			Details: `
{{ "Details:" | faint }}
{{ if eq . "wasted" }}Largest wasted space first
{{ else if eq . "path" }}Alphabetically by the original file
{{ else }}Largest files first{{ end }}
`,
		},
	}
	_, sortResult, err := sortPrompt.Run()
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	configuration.Sort = sortResult

	execPrompt := promptui.Prompt{
		Label:     "Command to run for each group (empty for none)",
		Default:   configuration.Exec,
		AllowEdit: true,
	}
	execResult, err := execPrompt.Run()
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	configuration.Exec = execResult
	configuration.ExecHashArg = false

	if configuration.Exec != "" {
		hashPrompt := promptui.Prompt{
			Label:     "Pass the group hash as the first argument",
			IsConfirm: true,
		}
		_, err := hashPrompt.Run()
		switch {
		case err == nil:
			configuration.ExecHashArg = true
		case errors.Is(err, promptui.ErrAbort):
		default:
			return fmt.Errorf("prompt failed: %w", err)
		}
	}

	return nil
}

func promptInt(label string, current int64, validate promptui.ValidateFunc) (int64, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   strconv.FormatInt(current, 10),
		AllowEdit: true,
		Validate:  validate,
	}

	result, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}

	value, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", result, err)
	}
	return value, nil
}

func validateNonNegative(input string) error {
	val, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return errors.New("must be a valid number")
	}
	if val < 0 {
		return errors.New("must be non-negative")
	}
	return nil
}

func validatePositive(input string) error {
	val, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return errors.New("must be a valid number")
	}
	if val < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func validateSize(input string) error {
	if len(input) < 1 {
		return errors.New("size must not be empty")
	}
	size, err := util.ParseSize(input)
	if err != nil {
		return err
	}
	if size <= 0 {
		return errors.New("size must be positive")
	}
	return nil
}
