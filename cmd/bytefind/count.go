package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/bytefind"
)

func newCountCmd(e *env) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "count <source> <needle>",
		Short: "Count occurrences of a needle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := newOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

			in, err := qf.input(e, args[1], "")
			if err != nil {
				return err
			}

			src, err := e.openSource(ctx, args[0], false)
			if err != nil {
				return err
			}
			defer src.Close()

			q, r, err := qf.resolve(cmd, in, src.Size())
			if err != nil {
				return err
			}

			n, canceled, err := bytefind.New(src, e.finderOptions(out)...).Count(ctx, q, r)
			out.endProgress()
			if err != nil {
				return err
			}
			if canceled {
				out.canceled()
			}
			out.summary("matches", n, q.Limit, r.Size())
			return nil
		},
	}

	qf.register(cmd)
	return cmd
}
