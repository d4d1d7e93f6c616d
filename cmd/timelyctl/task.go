package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"timely-scheduler/internal/schedule"
	"timely-scheduler/pkg/response"
)

func (cli *CLI) taskCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var (
		user, name, category, deadline string
		hours                          float64
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a pending task",
		Long:  "Add a task. --deadline takes RFC3339 or phrases like \"tomorrow\", \"in 3 days\", \"next friday\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := cli.app.DateParser.ParseDeadline(deadline, cli.now())
			if err != nil {
				return fmt.Errorf("deadline %q: %w", deadline, err)
			}
			t, err := cli.app.Schedule.CreateTask(cmd.Context(), schedule.CreateTaskInput{
				UserID:             user,
				Name:               name,
				Category:           category,
				TotalDurationHours: hours,
				Deadline:           due.AbsoluteTime,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s, %.2fh, due %s)\n",
				t.ID, t.Name, t.Category, t.TotalDurationHours, t.Deadline.Format(response.DateTimeFormat))
			return nil
		},
	}
	add.Flags().StringVarP(&user, "user", "u", "", "user id")
	add.Flags().StringVarP(&name, "name", "n", "", "task name")
	add.Flags().StringVar(&category, "category", "", "task category")
	add.Flags().Float64Var(&hours, "hours", 0, "total duration in hours (0 takes the category default)")
	add.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline")
	_ = add.MarkFlagRequired("user")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("deadline")

	var (
		listUser string
		all      bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := cli.app.Schedule.ListTasks(cmd.Context(), listUser, all)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tREMAINING\tTOTAL\tDEADLINE")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
					t.ID, t.Name, t.Category, t.RemainingHours, t.TotalDurationHours, t.Deadline.Format(response.DateTimeFormat))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&listUser, "user", "u", "", "user id")
	list.Flags().BoolVarP(&all, "all", "a", false, "include finished tasks")
	_ = list.MarkFlagRequired("user")

	cmd.AddCommand(add, list)
	return cmd
}
