package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/bytefind"
)

func newReplaceCmd(e *env) *cobra.Command {
	var (
		qf    queryFlags
		first bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "replace <file> <needle> <replacement>",
		Short: "Overwrite occurrences of a needle in place",
		Long: `Replace overwrites matches of the needle with the replacement, encoded the
same way. The file size never changes. A replacement longer than the needle
overwrites the bytes after each match and requires --force.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := newOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

			in, err := qf.input(e, args[1], args[2])
			if err != nil {
				return err
			}

			src, err := e.openSource(ctx, args[0], true)
			if err != nil {
				return err
			}
			defer src.Close()

			q, r, err := qf.resolve(cmd, in, src.Size())
			if err != nil {
				return err
			}

			f := bytefind.New(src, e.finderOptions(out)...)

			if first {
				s := f.NewSession(q, r)
				find := s.FindNext
				if qf.backward {
					find = s.FindPrev
				}
				res, err := find(ctx)
				out.endProgress()
				switch {
				case err != nil:
					return err
				case res.Canceled:
					out.canceled()
					return nil
				case !res.Found:
					out.notFound()
					return nil
				}
				if err := s.ReplaceCurrent(ctx, force); err != nil {
					return confirmHint(err)
				}
				out.match(res.Offset)
				return src.Sync()
			}

			m, err := f.ReplaceAll(ctx, q, r, force)
			out.endProgress()
			if err != nil {
				return confirmHint(err)
			}
			for _, off := range m.Offsets {
				out.match(off)
			}
			if m.Canceled {
				out.canceled()
			}
			out.summary("replaced", m.Count(), q.Limit, r.Size())
			return src.Sync()
		},
	}

	qf.register(cmd)
	cmd.Flags().BoolVar(&first, "first", false, "replace only the first match in the search direction")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "allow a replacement longer than the needle")
	return cmd
}

func confirmHint(err error) error {
	if errors.Is(err, bytefind.ErrReplacementLongerThanMatch) {
		return fmt.Errorf("%w (use --force to overwrite the following bytes)", err)
	}
	return err
}
