package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/adapters/blob"
)

func (c *CLI) newLookupCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "lookup <container> [permutation]",
		Short: "List or extract shaders from a container file",
		Long: "Without a permutation key, lists every shader stored in the container.\n" +
			"With one, extracts that shader's bytecode.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				entries, err := blob.List(args[0])
				if err != nil {
					return err
				}
				for _, entry := range entries {
					fmt.Printf("{%s} %d bytes\n", entry.Permutation, entry.Size)
				}
				return nil
			}

			payload, err := blob.Lookup(args[0], args[1])
			if err != nil {
				return err
			}

			if outFile == "" {
				fmt.Printf("{%s} %d bytes\n", args[1], len(payload))
				return nil
			}
			if err := os.WriteFile(outFile, payload, 0o600); err != nil {
				return zerr.Wrap(err, "can't write extracted shader")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the extracted bytecode to this file")

	return cmd
}
