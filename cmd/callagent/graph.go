package main

import (
	"fmt"

	"github.com/kasimali67/ai-call-agent/internal/presentation/graph"
	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the booking script as a Mermaid diagram",
	Run: func(cmd *cobra.Command, args []string) {
		silence, _ := cmd.Flags().GetBool("silence")
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(dialogue.Edges(), nil, silence))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("silence", false, "Include the re-ask loops taken on silence")
}
