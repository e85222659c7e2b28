package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/bytefind"
)

func newFindCmd(e *env) *cobra.Command {
	var (
		qf    queryFlags
		all   bool
		start uint64
	)

	cmd := &cobra.Command{
		Use:   "find <source> <needle>",
		Short: "Find the next or all occurrences of a needle",
		Long: `Find searches the source for the needle and prints the offset of the first
match in the search direction, or of every match with --all.`,
		Args: cobra.ExactArgs(2),
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

			f := bytefind.New(src, e.finderOptions(out)...)

			if all {
				m, err := f.FindAll(ctx, q, r)
				out.endProgress()
				if err != nil {
					return err
				}
				for _, off := range m.Offsets {
					out.match(off)
				}
				if m.Canceled {
					out.canceled()
				}
				out.summary("matches", m.Count(), q.Limit, r.Size())
				return nil
			}

			from := r.Begin
			if qf.backward {
				from = r.End
			}
			if cmd.Flags().Changed("start") {
				from = start
			}

			res, err := f.Find(ctx, q, r, from)
			out.endProgress()
			switch {
			case err != nil:
				return err
			case res.Canceled:
				out.canceled()
			case res.Found:
				out.match(res.Offset)
			default:
				out.notFound()
			}
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every match up to --limit")
	cmd.Flags().Uint64Var(&start, "start", 0, "offset to start from (default range begin, or end with --backward)")
	return cmd
}
