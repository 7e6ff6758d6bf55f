package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"thomasfermi/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile x...",
	Short: "输出参考解 y0(x) 与 y0'(x)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := profile.Default()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "x\ty0\ty0'")
		for _, arg := range args {
			x, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid point %q: %w", arg, err)
			}
			if x < 0 {
				return fmt.Errorf("invalid point %q: x must not be negative", arg)
			}
			y, dy := p.ValueAndSlope(x)
			fmt.Fprintf(out, "%g\t%.10g\t%.10g\n", x, y, dy)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
