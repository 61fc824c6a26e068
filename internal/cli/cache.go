package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand groups the commands that inspect and reset remembered tui
// state.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage remembered UI state",
		Long: `The tui command remembers which rows of each file were expanded.
That state lives in the cache directory, never in your documents.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Forget all remembered UI state",
			Args:  cobra.NoArgs,
			RunE:  c.runCacheClear,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

func (c *CLI) runCacheClear(*cobra.Command, []string) error {
	dir, err := cacheDir()
	if err != nil {
		return err
	}
	n, err := clearDir(dir)
	if err != nil {
		return err
	}
	c.Logger.Debug("cache cleared", "dir", dir, "entries", n)
	if n == 0 {
		printInfo("Nothing remembered yet")
		return nil
	}
	printSuccess("Forgot state for %d documents", n)
	printDetail("%s", dir)
	return nil
}

// clearDir removes every file under dir, then the emptied subdirectories,
// and reports how many files were removed. A missing directory holds no
// entries.
func clearDir(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	count := 0
	var subdirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if d.IsDir() {
			subdirs = append(subdirs, path)
			return nil
		}
		if os.Remove(path) == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	for i := len(subdirs) - 1; i >= 0; i-- {
		_ = os.Remove(subdirs[i])
	}
	return count, nil
}
