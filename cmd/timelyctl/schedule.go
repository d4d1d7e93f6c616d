package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"timely-scheduler/internal/schedule"
	"timely-scheduler/pkg/response"
)

func (cli *CLI) scheduleCommand() *cobra.Command {
	var (
		users       []string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run a scheduling pass for one or more users",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]schedule.PassResult, len(users))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(concurrency, 1))
			for i, user := range users {
				g.Go(func() error {
					res, err := cli.app.Schedule.RunPass(ctx, user)
					if err != nil {
						return fmt.Errorf("user %s: %w", user, err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, res := range results {
				printPass(cmd.OutOrStdout(), res)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&users, "user", "u", nil, "user id (repeatable)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "users scheduled in parallel")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printPass(w io.Writer, res schedule.PassResult) {
	fmt.Fprintf(w, "%s: %s, %d placed, %d skipped, %d explored\n",
		res.UserID, res.Status, len(res.Scheduled), len(res.Skipped), res.Explored)
	for _, p := range res.Scheduled {
		fmt.Fprintf(w, "  + %s  %s -> %s  %.2fh  p=%.3f  invite=%s\n",
			p.TaskName, p.Start.Format(response.DateTimeFormat), p.End.Format(response.DateTimeFormat),
			p.ChunkDuration, p.Probability, p.InviteID)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  - %s  %s  %s\n", s.TaskName, s.Reason, s.Detail)
	}
}
