package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go-thread/internal/workforce"

	"github.com/spf13/cobra"
)

type transferResult struct {
	Users      int `json:"users"`
	Attendance int `json:"attendance"`
	Leaves     int `json:"leaves"`
}

func countsOf(snap workforce.Snapshot) transferResult {
	return transferResult{Users: len(snap.Users), Attendance: len(snap.Attendance), Leaves: len(snap.Leaves)}
}

func (r *runner) exportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole store as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := r.env.Store.Export(cmd.Context())
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(b, '\n'))
				return err
			}
			if err := os.WriteFile(out, b, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			counts := countsOf(snap)
			return r.print(cmd, counts, func(w io.Writer) {
				fmt.Fprintf(w, "Exported %d users, %d attendance records and %d leave requests to %s.\n",
					counts.Users, counts.Attendance, counts.Leaves, out)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (r *runner) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole store with an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			var snap workforce.Snapshot
			if err := json.Unmarshal(b, &snap); err != nil {
				return fmt.Errorf("decode import: %w", err)
			}
			if err := r.env.Store.Import(cmd.Context(), snap); err != nil {
				return err
			}
			counts := countsOf(snap)
			return r.print(cmd, counts, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d users, %d attendance records and %d leave requests.\n",
					counts.Users, counts.Attendance, counts.Leaves)
			})
		},
	}
}
