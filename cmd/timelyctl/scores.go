package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"timely-scheduler/internal/model"
	"timely-scheduler/pkg/category"
	"timely-scheduler/pkg/datemath"
)

type slotScore struct {
	offset int
	start  time.Time
	score  float64
}

func (cli *CLI) scoresCommand() *cobra.Command {
	var (
		user, cat       string
		duration, dueIn float64
		window, top     int
	)
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the learned preference for upcoming hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := cli.now().In(cli.app.DateParser.Location())
			origin := datemath.FloorToHour(now)
			dow := model.MondayFirst(int(now.Weekday()))
			pc := model.PolicyContext{
				TaskCategory:  category.Default().Normalize(cat),
				TaskDuration:  duration,
				HoursUntilDue: dueIn,
				DayOfWeek:     dow,
				IsWeekend:     dow >= 5,
				OriginHour:    origin.Hour(),
				OriginWeekday: model.MondayFirst(int(origin.Weekday())),
			}

			actions := make([]int, window)
			for i := range actions {
				actions[i] = i
			}
			scores, err := cli.app.Policy.Score(cmd.Context(), user, pc, actions)
			if err != nil {
				return err
			}

			slots := make([]slotScore, len(actions))
			for i, a := range actions {
				slots[i] = slotScore{offset: a, start: origin.Add(time.Duration(a) * time.Hour), score: scores[i]}
			}
			sort.SliceStable(slots, func(i, j int) bool { return slots[i].score > slots[j].score })
			if top > 0 && top < len(slots) {
				slots = slots[:top]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OFFSET\tSTART\tSCORE")
			for _, s := range slots {
				fmt.Fprintf(w, "%d\t%s\t%.4f\n", s.offset, s.start.Format("Mon 15:04"), s.score)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user id")
	cmd.Flags().StringVar(&cat, "category", category.Other, "task category")
	cmd.Flags().Float64Var(&duration, "duration", 1, "task duration in hours")
	cmd.Flags().Float64Var(&dueIn, "due-in", 48, "hours until the deadline")
	cmd.Flags().IntVar(&window, "hours", 24, "hour offsets to score")
	cmd.Flags().IntVar(&top, "top", 10, "rows to print (0 prints all)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
