package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand writes a completion script for the named shell to the
// command's output.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Completion prints a completion script for treetable. Row ids are not
completed; file arguments fall back to the shell's file completion.`,
		Example: `  source <(treetable completion bash)
  treetable completion zsh > "${fpath[1]}/_treetable"
  treetable completion fish > ~/.config/fish/completions/treetable.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
