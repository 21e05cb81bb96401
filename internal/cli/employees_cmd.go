package cli

import (
	"fmt"
	"io"

	"go-thread/internal/domain"
	"go-thread/internal/user"

	"github.com/spf13/cobra"
)

func (r *runner) employeesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "Manage the employee directory",
	}
	cmd.AddCommand(
		r.employeesAddCommand(),
		r.employeesListCommand(),
		r.employeesShowCommand(),
		r.employeesUpdateCommand(),
	)
	return cmd
}

func (r *runner) employeesAddCommand() *cobra.Command {
	var (
		req  user.AddEmployeeRequest
		wage int64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee to your company (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("wage") {
				total := domain.Amount(wage)
				req.TotalWage = &total
			}
			resp, err := r.svc().User.AddEmployee(cmd.Context(), r.session(cmd.Context()), req)
			if err != nil {
				return err
			}
			return r.print(cmd, resp, func(w io.Writer) {
				fmt.Fprintf(w, "Added %s.\n", resp.User.Name)
				fmt.Fprintf(w, "Employee ID:\t%s\n", resp.User.EmployeeID)
				fmt.Fprintf(w, "Temporary password:\t%s\n", resp.TemporaryPassword)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first", "", "first name")
	f.StringVar(&req.LastName, "last", "", "last name")
	f.StringVar(&req.Email, "email", "", "email ending in @employee.com")
	f.StringVar(&req.Phone, "phone", "", "10 digit phone number")
	f.IntVar(&req.YearOfJoining, "year", 0, "year of joining (default current year)")
	f.Int64Var(&wage, "wage", 0, "monthly total wage (default 50000)")
	return cmd
}

func (r *runner) employeesListCommand() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List colleagues in your company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := r.svc().User.GetAll(cmd.Context(), r.session(cmd.Context()), query)
			if err != nil {
				return err
			}
			return r.print(cmd, users, func(w io.Writer) {
				fmt.Fprintln(w, "EMPLOYEE ID\tNAME\tEMAIL\tROLE\tSTATUS\tID")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", u.EmployeeID, u.Name, u.Email, u.Role, u.Status, u.ID)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name, email, employee id or department")
	return cmd
}

func (r *runner) employeesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [user-id]",
		Short: "Show a profile, your own by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := r.session(cmd.Context())
			id := sess.UserID
			if len(args) == 1 {
				id = args[0]
			}
			u, err := r.svc().User.GetByID(cmd.Context(), sess, id)
			if err != nil {
				return err
			}
			return r.print(cmd, u, func(w io.Writer) {
				printUser(w, u)
				if u.Salary != nil {
					fmt.Fprintf(w, "Total wage:\t%d (%s)\n", u.Salary.TotalWage, u.Salary.WageType)
				}
			})
		},
	}
}

func (r *runner) employeesUpdateCommand() *cobra.Command {
	var (
		req                      user.UpdateUserRequest
		salary                   user.SalaryUpdate
		phone, address, photo    string
		about, name, designation string
		department, manager      string
		employment, location     string
		status                   string
		year                     int
		wage, extra, deductions  int64
	)
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a profile; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			strs := map[string]struct {
				dst **string
				v   *string
			}{
				"phone":           {&req.Phone, &phone},
				"address":         {&req.Address, &address},
				"photo":           {&req.ProfilePhoto, &photo},
				"about":           {&req.About, &about},
				"name":            {&req.Name, &name},
				"designation":     {&req.Designation, &designation},
				"department":      {&req.Department, &department},
				"manager":         {&req.Manager, &manager},
				"employment-type": {&req.EmploymentType, &employment},
				"location":        {&req.Location, &location},
			}
			for flag, s := range strs {
				if f.Changed(flag) {
					*s.dst = s.v
				}
			}
			if f.Changed("year") {
				req.JoiningYear = &year
			}
			if f.Changed("status") {
				p := domain.Presence(status)
				req.Status = &p
			}
			amounts := map[string]struct {
				dst **domain.Amount
				v   int64
			}{
				"wage":       {&salary.TotalWage, wage},
				"extra":      {&salary.ExtraWages, extra},
				"deductions": {&salary.Deductions, deductions},
			}
			for flag, a := range amounts {
				if f.Changed(flag) {
					v := domain.Amount(a.v)
					*a.dst = &v
					req.Salary = &salary
				}
			}

			u, err := r.svc().User.UpdateUser(cmd.Context(), r.session(cmd.Context()), args[0], req)
			if err != nil {
				return err
			}
			return r.print(cmd, u, func(w io.Writer) {
				fmt.Fprintf(w, "Updated %s.\n", u.Name)
				printUser(w, u)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&phone, "phone", "", "phone")
	f.StringVar(&address, "address", "", "address")
	f.StringVar(&photo, "photo", "", "profile photo URL")
	f.StringVar(&about, "about", "", "about text")
	f.StringVar(&name, "name", "", "full name")
	f.StringVar(&designation, "designation", "", "designation")
	f.StringVar(&department, "department", "", "department")
	f.StringVar(&manager, "manager", "", "manager")
	f.StringVar(&employment, "employment-type", "", "employment type")
	f.StringVar(&location, "location", "", "location")
	f.StringVar(&status, "status", "", "PRESENT, LEAVE or ABSENT")
	f.IntVar(&year, "year", 0, "joining year")
	f.Int64Var(&wage, "wage", 0, "total wage; other components are derived")
	f.Int64Var(&extra, "extra", 0, "extra wages")
	f.Int64Var(&deductions, "deductions", 0, "deductions")
	return cmd
}
