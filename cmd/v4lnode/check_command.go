package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"v4lnode/internal/preflight"
	"v4lnode/internal/v4l"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directory and device node access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			scanner, err := ctx.scanner()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			dirResults := preflight.RunAll(cfg)
			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range resultLines(dirResults, statusError, colorize) {
				fmt.Fprintln(out, line)
			}

			nodes := scanner.Scan()
			v4l.SortNodes(nodes)
			nodeResults := make([]preflight.Result, 0, len(nodes))
			for _, node := range nodes {
				nodeResults = append(nodeResults, preflight.CheckNode(node.Path()))
			}
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Device nodes", colorize) {
				fmt.Fprintln(out, line)
			}
			if len(nodeResults) == 0 {
				fmt.Fprintln(out, renderStatusLine("Nodes", statusWarn, "none found in "+cfg.Discovery.DevDir, colorize))
			}
			for _, line := range resultLines(nodeResults, statusWarn, colorize) {
				fmt.Fprintln(out, line)
			}

			for _, result := range dirResults {
				if !result.Passed {
					return errors.New("preflight checks failed")
				}
			}
			return nil
		},
	}
}
