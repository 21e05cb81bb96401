package cli

import (
	"fmt"
	"io"

	"go-thread/internal/auth"
	"go-thread/internal/user"

	"github.com/spf13/cobra"
)

func printUser(w io.Writer, u user.UserResponse) {
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	fmt.Fprintf(w, "Employee ID:\t%s\n", u.EmployeeID)
	fmt.Fprintf(w, "Name:\t%s\n", u.Name)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	fmt.Fprintf(w, "Phone:\t%s\n", u.Phone)
	fmt.Fprintf(w, "Role:\t%s\n", u.Role)
	fmt.Fprintf(w, "Company:\t%s (%s)\n", u.CompanyName, u.CompanyID)
	fmt.Fprintf(w, "Designation:\t%s\n", u.Designation)
	fmt.Fprintf(w, "Department:\t%s\n", u.Department)
	if u.Manager != "" {
		fmt.Fprintf(w, "Manager:\t%s\n", u.Manager)
	}
	fmt.Fprintf(w, "Status:\t%s\n", u.Status)
	if u.IsFirstLogin {
		fmt.Fprintln(w, "First login:\tpassword change pending")
	}
}

func (r *runner) signupCommand() *cobra.Command {
	var req auth.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a company account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := r.svc().Auth.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.print(cmd, resp.User, func(w io.Writer) {
				fmt.Fprintf(w, "Signed up as %s.\n", resp.User.Email)
				printUser(w, resp.User)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.CompanyName, "company", "", "company name")
	f.StringVar(&req.CompanyLogo, "logo", "", "company logo URL")
	f.StringVar(&req.Name, "name", "", "full name")
	f.StringVar(&req.Email, "email", "", "email (@admin.com or @employee.com)")
	f.StringVar(&req.Phone, "phone", "", "10 digit phone number")
	f.StringVar(&req.Password, "password", "", "password")
	f.StringVar(&req.ConfirmPassword, "confirm", "", "password confirmation")
	return cmd
}

func (r *runner) loginCommand() *cobra.Command {
	var req auth.LoginRequest
	cmd := &cobra.Command{
		Use:   "login <email|employee-id>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Identifier = args[0]
			resp, err := r.svc().Auth.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.print(cmd, resp.User, func(w io.Writer) {
				fmt.Fprintf(w, "Welcome, %s.\n", resp.User.Name)
				if resp.User.IsFirstLogin {
					fmt.Fprintln(w, "Please set a new password with `thread passwd`.")
				}
			})
		},
	}
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password")
	cmd.Flags().StringVarP(&req.CompanyID, "company", "c", "", "company id (see `thread companies`)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.svc().Auth.Logout(cmd.Context(), r.session(cmd.Context())); err != nil {
				return err
			}
			return r.print(cmd, map[string]bool{"signedOut": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Signed out.")
			})
		},
	}
}

func (r *runner) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := r.svc().Auth.Me(cmd.Context(), r.session(cmd.Context()))
			if err != nil {
				return err
			}
			return r.print(cmd, resp.User, func(w io.Writer) { printUser(w, resp.User) })
		},
	}
}

func (r *runner) passwdCommand() *cobra.Command {
	var req auth.ChangePasswordRequest
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the signed-in user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.svc().Auth.ChangePassword(cmd.Context(), r.session(cmd.Context()), req); err != nil {
				return err
			}
			return r.print(cmd, map[string]bool{"changed": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Password changed.")
			})
		},
	}
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "new password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm", "", "new password confirmation")
	return cmd
}
