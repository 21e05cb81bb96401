package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func (r *runner) companiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List the companies you can sign in to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := r.svc().Company.List(cmd.Context())
			if err != nil {
				return err
			}
			return r.print(cmd, list, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tMEMBERS")
				for _, c := range list {
					fmt.Fprintf(w, "%s\t%s\t%d\n", c.ID, c.Name, c.HeadCount)
				}
			})
		},
	}
}

func (r *runner) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := r.svc().Company.Dashboard(cmd.Context(), r.session(cmd.Context()))
			if err != nil {
				return err
			}
			return r.print(cmd, d, func(w io.Writer) {
				fmt.Fprintf(w, "%s\n\n", d.Company.Name)
				if a := d.Admin; a != nil {
					fmt.Fprintf(w, "Employees:\t%d\n", a.TotalEmployees)
					fmt.Fprintf(w, "Present today:\t%d\n", a.PresentToday)
					fmt.Fprintf(w, "Pending leaves:\t%d\n", a.PendingLeaves)
					fmt.Fprintf(w, "Payroll:\t%d\n", a.PayrollTotal)
				}
				if e := d.Employee; e != nil {
					fmt.Fprintf(w, "Days present this month:\t%d\n", e.DaysPresent)
					fmt.Fprintf(w, "Leaves remaining:\t%d\n", e.LeavesRemaining)
					fmt.Fprintf(w, "Last check-in:\t%s\n", e.LastCheckIn)
				}
			})
		},
	}
}
