package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func (r *runner) payrollCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Salary breakdowns and payslips",
	}
	cmd.AddCommand(
		r.payrollShowCommand(),
		r.payrollPayslipCommand(),
		r.payrollSummaryCommand(),
	)
	return cmd
}

func userArg(args []string) string {
	if len(args) == 0 || args[0] == "me" {
		return ""
	}
	return args[0]
}

func (r *runner) payrollShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [user-id|me]",
		Short: "Show a salary breakdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := r.svc().Payroll.GetPayroll(cmd.Context(), r.session(cmd.Context()), userArg(args))
			if err != nil {
				return err
			}
			return r.print(cmd, p, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s)\n\n", p.Name, p.EmployeeID)
				for _, l := range p.Lines {
					sign := ""
					if l.Deduction {
						sign = "-"
					}
					fmt.Fprintf(w, "%s\t%s%d\n", l.Label, sign, l.Amount)
				}
				fmt.Fprintf(w, "Net pay\t%d\n", p.NetPay)
			})
		},
	}
}

func (r *runner) payrollPayslipCommand() *cobra.Command {
	var period, out string
	cmd := &cobra.Command{
		Use:   "payslip [user-id|me]",
		Short: "Write a PDF payslip",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := r.svc().Payroll.Payslip(cmd.Context(), r.session(cmd.Context()), userArg(args), period)
			if err != nil {
				return err
			}
			if out == "" {
				name := period
				if name == "" {
					name = time.Now().Format("2006-01")
				}
				out = "payslip-" + name + ".pdf"
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return fmt.Errorf("write payslip: %w", err)
			}
			return r.print(cmd, map[string]any{"file": out, "bytes": len(pdf)}, func(w io.Writer) {
				fmt.Fprintf(w, "Wrote %s.\n", out)
			})
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "month as YYYY-MM (default current month)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default payslip-<period>.pdf)")
	return cmd
}

func (r *runner) payrollSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the company wage pool (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := r.svc().Payroll.Summary(cmd.Context(), r.session(cmd.Context()))
			if err != nil {
				return err
			}
			return r.print(cmd, s, func(w io.Writer) {
				fmt.Fprintf(w, "Head count:\t%d\n", s.HeadCount)
				fmt.Fprintf(w, "Wage pool:\t%d\n", s.WagePool)
				fmt.Fprintf(w, "Net pay total:\t%d\n", s.NetPayTotal)
			})
		},
	}
}
