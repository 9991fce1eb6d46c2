package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"helmsman-hq/chartward/pkg/policy"
	"helmsman-hq/chartward/pkg/policy/builtin"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List available policy plugins",
	Long:  `List the built-in policy plugins with their versions and descriptions.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range builtin.All() {
			fmt.Printf("%s (v%s)\n", p.Name(), p.Version())
			if d, ok := p.(policy.Describer); ok {
				fmt.Printf("  %s\n", d.Description())
			}
			if mp, ok := p.(policy.MetadataProvider); ok {
				if md := mp.Metadata(); md != nil && len(md.Tags) > 0 {
					fmt.Printf("  tags: %s\n", strings.Join(md.Tags, ", "))
				}
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
