package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator.
var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       genBashCompletion,
	"fish":       genFishCompletion,
	"powershell": genPowerShellCompletion,
	"zsh":        genZshCompletion,
}

func genBashCompletion(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) }
func genFishCompletion(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) }
func genZshCompletion(root *cobra.Command, w io.Writer) error  { return root.GenZshCompletion(w) }

func genPowerShellCompletion(root *cobra.Command, w io.Writer) error {
	return root.GenPowerShellCompletionWithDesc(w)
}

func shellNames() []string {
	names := make([]string, 0, len(completionShells))
	for name := range completionShells {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	shells := shellNames()
	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell.

  bash        source <(colorgraph completion bash)
  zsh         colorgraph completion zsh > "${fpath[1]}/_colorgraph"
  fish        colorgraph completion fish > ~/.config/fish/completions/colorgraph.fish
  powershell  colorgraph completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards for the completions to load.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
