package cli

import (
	"fmt"
	"io"

	"go-thread/internal/attendance"
	"go-thread/internal/domain"

	"github.com/spf13/cobra"
)

func printRecords(w io.Writer, records []attendance.AttendanceResponse) {
	fmt.Fprintln(w, "DATE\tNAME\tCHECK IN\tCHECK OUT\tHOURS\tEXTRA\tSTATUS\tID")
	for _, a := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%s\t%s\n",
			a.Date, a.UserName, a.CheckIn, orDash(a.CheckOut), a.WorkHours, a.ExtraHours, a.Status, a.ID)
	}
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func (r *runner) attendanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendance",
		Aliases: []string{"att"},
		Short:   "Check in, check out and review attendance",
	}
	cmd.AddCommand(
		r.attendanceCheckInCommand(),
		r.attendanceCheckOutCommand(),
		r.attendanceListCommand(),
		r.attendanceSummaryCommand(),
	)
	return cmd
}

func (r *runner) attendanceCheckInCommand() *cobra.Command {
	var date, at, status string
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record today's check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req attendance.CheckInRequest
			if date != "" {
				req.Date = &date
			}
			if at != "" {
				req.CheckIn = &at
			}
			if status != "" {
				p := domain.Presence(status)
				req.Status = &p
			}
			rec, err := r.svc().Attendance.CheckIn(cmd.Context(), r.session(cmd.Context()), req)
			if err != nil {
				return err
			}
			return r.print(cmd, rec, func(w io.Writer) {
				fmt.Fprintf(w, "Checked in at %s on %s.\n", rec.CheckIn, rec.Date)
				fmt.Fprintf(w, "Record:\t%s\n", rec.ID)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&at, "time", "", "check-in time such as 09:00 AM (default now)")
	cmd.Flags().StringVar(&status, "status", "", "PRESENT, LEAVE or ABSENT (default PRESENT)")
	return cmd
}

func (r *runner) attendanceCheckOutCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "checkout <record-id>",
		Short: "Record the check-out time and compute hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req attendance.CheckOutRequest
			if at != "" {
				req.CheckOut = &at
			}
			rec, err := r.svc().Attendance.CheckOut(cmd.Context(), r.session(cmd.Context()), args[0], req)
			if err != nil {
				return err
			}
			return r.print(cmd, rec, func(w io.Writer) {
				fmt.Fprintf(w, "Checked out at %s.\n", rec.CheckOut)
				fmt.Fprintf(w, "Work hours:\t%.2f\n", rec.WorkHours)
				fmt.Fprintf(w, "Extra hours:\t%.2f\n", rec.ExtraHours)
			})
		},
	}
	cmd.Flags().StringVar(&at, "time", "", "check-out time such as 06:00 PM (default now)")
	return cmd
}

func (r *runner) attendanceListCommand() *cobra.Command {
	var filter attendance.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := r.svc().Attendance.GetAll(cmd.Context(), r.session(cmd.Context()), filter)
			if err != nil {
				return err
			}
			return r.print(cmd, records, func(w io.Writer) { printRecords(w, records) })
		},
	}
	cmd.Flags().StringVar(&filter.UserID, "user", "", "only this user (admins)")
	cmd.Flags().StringVar(&filter.Date, "date", "", "only this date")
	return cmd
}

func (r *runner) attendanceSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize attendance per user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := r.svc().Attendance.Summary(cmd.Context(), r.session(cmd.Context()))
			if err != nil {
				return err
			}
			return r.print(cmd, sum, func(w io.Writer) {
				fmt.Fprintf(w, "Present today:\t%d\n\n", sum.PresentToday)
				fmt.Fprintln(w, "NAME\tPRESENT\tLEAVE\tABSENT\tHOURS\tEXTRA")
				for _, u := range sum.Users {
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%.2f\n", u.UserName, u.Present, u.Leave, u.Absent, u.WorkHours, u.ExtraHours)
				}
			})
		},
	}
}
