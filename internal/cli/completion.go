package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts for the four
// shells cobra supports.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

Load it for the current session:

  source <(drawbridge completion bash)
  drawbridge completion fish | source

Or install it permanently:

  # bash (Linux)
  drawbridge completion bash > /etc/bash_completion.d/drawbridge
  # bash (macOS, bash-completion via brew)
  drawbridge completion bash > $(brew --prefix)/etc/bash_completion.d/drawbridge
  # zsh (restart the shell afterwards)
  drawbridge completion zsh > "${fpath[1]}/_drawbridge"
  # fish
  drawbridge completion fish > ~/.config/fish/completions/drawbridge.fish
  # powershell: source the output from your profile
  drawbridge completion powershell > drawbridge.ps1
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}
