package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dlf/internal/initializer"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

// statusLine is the JSON form of one category check.
type statusLine struct {
	Category  types.Category `json:"category"`
	Persisted int            `json:"persisted"`
	Desired   int            `json:"desired"`
	Missing   int            `json:"missing"`
	Complete  bool           `json:"complete"`
}

func newStatusCmd(f *rootFlags) *cobra.Command {
	var pid int64
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which default data a tenant has",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, f, pid)
		},
	}
	cmd.Flags().Int64VarP(&pid, "pid", "p", 0, "page id of the tenant")
	_ = cmd.MarkFlagRequired("pid")
	return cmd
}

func runStatus(cmd *cobra.Command, f *rootFlags, pid int64) error {
	if pid < 0 {
		return userError(types.ErrInvalidPID)
	}
	e, err := openEnv(cmd, f)
	if err != nil {
		return err
	}
	defer e.close()

	rec := e.newInitializer().Reconciler()
	lines := make([]statusLine, 0, len(types.SeedOrder))
	checks := make([]initializer.Check, 0, len(types.SeedOrder))
	for _, c := range types.SeedOrder {
		check, err := rec.Inspect(cmd.Context(), c, pid)
		if err != nil {
			return sysError(err)
		}
		checks = append(checks, check)
		lines = append(lines, statusLine{
			Category:  c,
			Persisted: check.Persisted,
			Desired:   check.Desired,
			Missing:   check.Missing(),
			Complete:  check.Complete,
		})
	}

	if f.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}
	report := initializer.NewReporter(cmd.OutOrStdout())
	for _, check := range checks {
		report.Check(check)
	}
	return nil
}
