package cli

import (
	"fmt"
	"io"
	"strings"

	"go-thread/internal/domain"
	"go-thread/internal/leave"

	"github.com/spf13/cobra"
)

func (r *runner) leaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leave",
		Aliases: []string{"leaves"},
		Short:   "Request, decide and review leave",
	}
	cmd.AddCommand(
		r.leaveRequestCommand(),
		r.leaveDecideCommand("approve", domain.LeaveApproved),
		r.leaveDecideCommand("reject", domain.LeaveRejected),
		r.leaveListCommand(),
		r.leaveBalanceCommand(),
	)
	return cmd
}

func (r *runner) leaveRequestCommand() *cobra.Command {
	var (
		req       leave.SubmitLeaveRequest
		leaveType string
	)
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Submit a leave request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Type = domain.LeaveType(leaveType)
			if req.EndDate == "" {
				req.EndDate = req.StartDate
			}
			l, err := r.svc().Leave.Submit(cmd.Context(), r.session(cmd.Context()), req)
			if err != nil {
				return err
			}
			return r.print(cmd, l, func(w io.Writer) {
				fmt.Fprintf(w, "Requested %d day(s) of %s.\n", l.TotalDays, l.TypeLabel)
				fmt.Fprintf(w, "Request:\t%s\n", l.ID)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&leaveType, "type", "t", string(domain.LeavePTO), "PTO, SICK or UNPAID")
	f.StringVar(&req.StartDate, "from", "", "first day as YYYY-MM-DD")
	f.StringVar(&req.EndDate, "to", "", "last day as YYYY-MM-DD (default --from)")
	f.StringVar(&req.Reason, "reason", "", "reason")
	f.StringVar(&req.Attachment, "attachment", "", "attachment reference")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func (r *runner) leaveDecideCommand(verb string, status domain.LeaveStatus) *cobra.Command {
	var remarks string
	cmd := &cobra.Command{
		Use:   verb + " <leave-id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a pending leave request (admins only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := leave.UpdateStatusRequest{Status: status, Remarks: remarks}
			l, err := r.svc().Leave.UpdateStatus(cmd.Context(), r.session(cmd.Context()), args[0], req)
			if err != nil {
				return err
			}
			return r.print(cmd, l, func(w io.Writer) {
				fmt.Fprintf(w, "Leave %s for %s is now %s.\n", l.ID, l.UserName, l.Status)
			})
		},
	}
	cmd.Flags().StringVar(&remarks, "remarks", "", "remarks for the requester")
	return cmd
}

func (r *runner) leaveListCommand() *cobra.Command {
	var status, userID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leave requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := leave.Filter{Status: domain.LeaveStatus(strings.ToUpper(status)), UserID: userID}
			leaves, err := r.svc().Leave.GetAll(cmd.Context(), r.session(cmd.Context()), filter)
			if err != nil {
				return err
			}
			return r.print(cmd, leaves, func(w io.Writer) {
				fmt.Fprintln(w, "NAME\tTYPE\tFROM\tTO\tDAYS\tSTATUS\tID")
				for _, l := range leaves {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", l.UserName, l.TypeLabel, l.StartDate, l.EndDate, l.TotalDays, l.Status, l.ID)
				}
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "PENDING, APPROVED or REJECTED")
	cmd.Flags().StringVar(&userID, "user", "", "only this user (admins)")
	return cmd
}

func (r *runner) leaveBalanceCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show leave used and remaining",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balances, err := r.svc().Leave.Balances(cmd.Context(), r.session(cmd.Context()), userID)
			if err != nil {
				return err
			}
			return r.print(cmd, balances, func(w io.Writer) {
				fmt.Fprintln(w, "TYPE\tUSED\tREMAINING")
				for _, b := range balances {
					remaining := "unlimited"
					if b.Remaining != nil {
						remaining = fmt.Sprintf("%d of %d", *b.Remaining, *b.Total)
					}
					fmt.Fprintf(w, "%s\t%d\t%s\n", b.Label, b.Used, remaining)
				}
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (admins; default yourself)")
	return cmd
}
