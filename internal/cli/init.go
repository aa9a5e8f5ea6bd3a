package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dlf/internal/initializer"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	var (
		pid     int64
		rawType string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Insert the default data of a tenant",
		Long: "Insert the default formats, metadata, structures and search core a tenant\n" +
			"needs. Only missing records are inserted; running it again changes nothing.\n\n" +
			"--type is one of: all, format, metadata, structure, solr.",
		Example: "  dlfctl init --pid 12 --type all",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, f, pid, rawType)
		},
	}
	cmd.Flags().Int64VarP(&pid, "pid", "p", 0, "page id of the tenant")
	cmd.Flags().StringVarP(&rawType, "type", "t", "", "what to insert: all, format, metadata, structure or solr")
	_ = cmd.MarkFlagRequired("pid")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runInit(cmd *cobra.Command, f *rootFlags, pid int64, rawType string) error {
	out := cmd.OutOrStdout()

	// An unknown type is reported before config or storage is touched.
	if _, ok := types.ParseCategory(rawType); !ok {
		_, err := initializer.New(nil, nil, nil).Run(cmd.Context(), pid, rawType, out)
		return userError(err)
	}

	e, err := openEnv(cmd, f)
	if err != nil {
		return err
	}
	defer e.close()

	outcome, err := e.newInitializer().Run(cmd.Context(), pid, rawType, out)
	switch {
	case errors.Is(err, types.ErrInvalidType), errors.Is(err, types.ErrInvalidPID):
		return userError(err)
	case err != nil:
		return sysError(err)
	case !outcome.Success():
		return userError(fmt.Errorf("initial data was not inserted for %q type", rawType))
	}
	return nil
}
