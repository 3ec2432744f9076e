/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/substantialcattle5/findup/internal/constants"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   constants.ProgName + " [flags] [paths...]",
		Short: "findup - find duplicate files",
		Long: `Finds file duplicates by comparing sizes, hashes of file prefixes, and hashes of
the full file contents. Both CRC-32 and MurmurHash3 digests are calculated to
minimize hash collisions. The wasted space is rounded up to the filesystem
cluster size when the operating system reports it.

Example:
  findup ~/Pictures /mnt/backup/Pictures
  findup -v -d --exec "ls -l" ~/Music
  find / -maxdepth 1 -type d | findup -i -`,
		Version:       constants.ProgVersion,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScan,
	}

	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	cmd.PersistentFlags().String("config", "", "config file (default is $XDG_CONFIG_HOME/findup/config.yaml)")

	cmd.Flags().BoolP("quiet", "q", false, "don't print even duplicate file names and summary. Useful with --exec")
	cmd.Flags().CountP("verbose", "v", "verbosity level 1-3 (-v, -vv, -vvv)")
	cmd.Flags().BoolP("no-summary", "S", false, "don't print summary about wasted space")
	cmd.Flags().BoolP("paranoid", "d", false, "compare files byte-by-byte when size and hashes match. Can significantly increase execution time")
	cmd.Flags().StringP("exec", "e", "", "execute a command for each group of identical files")
	cmd.Flags().BoolP("exec-hash-arg", "a", false, "include hash as the first argument of the --exec command")
	cmd.Flags().Int64P("min-file-size", "m", constants.DefaultMinFileSize, "minimum file size to include in the analysis")
	cmd.Flags().Int64P("prefix-size", "p", constants.DefaultPrefixSize, "size of the prefix hashed before full files are compared")
	cmd.Flags().StringP("paths", "i", "", "read directory names from a file, or the standard input if '-' is given")
	cmd.Flags().IntP("workers", "j", 0, "number of files hashed in parallel (default: number of CPUs)")
	cmd.Flags().String("buffer-size", constants.DefaultBufferSize, "minimum read buffer size, e.g. 8MiB")
	cmd.Flags().String("sort", constants.SortByWasted, "order of duplicate groups: wasted, path or size")
	cmd.Flags().BoolP("version", "V", false, "print version and exit")

	// Deterministic hashes for tests
	cmd.Flags().String("mock-prefix-hash", "", "use this value for every prefix hash")
	cmd.Flags().String("mock-full-hash", "", "use this value for every full file hash")
	_ = cmd.Flags().MarkHidden("mock-prefix-hash")
	_ = cmd.Flags().MarkHidden("mock-full-hash")

	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", constants.ProgName, err)
		os.Exit(1)
	}
}
