package cmd

import (
	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/script"
	"github.com/spf13/cobra"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List the built-in scripts",
	Long: `List the scripts compiled into scoopick with the number of points each one
expects. Plugins (.so) and YAML step files are loaded by path instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(script.Entries())
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
}
