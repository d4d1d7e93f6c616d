package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (cli *CLI) outcomeCommand() *cobra.Command {
	var invite, status string
	cmd := &cobra.Command{
		Use:   "outcome",
		Short: "Record an invite response (accepted or declined)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.app.Feedback.HandleStatus(cmd.Context(), invite, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", invite, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&invite, "invite", "i", "", "invite id")
	cmd.Flags().StringVarP(&status, "status", "s", "", "accepted or declined")
	_ = cmd.MarkFlagRequired("invite")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func (cli *CLI) pollCommand() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Read calendar responses for a user's open invites",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := cli.app.Feedback.Poll(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: checked %d, applied %d, pending %d, not found %d\n",
				user, res.Checked, res.Applied, res.Pending, res.NotFound)
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
