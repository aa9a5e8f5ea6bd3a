package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dlf/internal/search"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

func newSearchCmd(f *rootFlags) *cobra.Command {
	var req search.Request
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Query the search core of a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, f, req)
		},
	}
	cmd.Flags().Int64VarP(&req.PID, "pid", "p", 0, "page id of the tenant")
	cmd.Flags().StringVarP(&req.Query, "query", "q", "", "query string")
	cmd.Flags().IntVar(&req.Page, "page", 1, "result page, starting at 1")
	cmd.Flags().StringVar(&req.Sort, "sort", "", "sortable metadata field")
	cmd.Flags().BoolVar(&req.Desc, "desc", false, "sort descending")
	_ = cmd.MarkFlagRequired("pid")
	return cmd
}

func runSearch(cmd *cobra.Command, f *rootFlags, req search.Request) error {
	if req.PID < 0 {
		return userError(types.ErrInvalidPID)
	}
	e, err := openEnv(cmd, f)
	if err != nil {
		return err
	}
	defer e.close()

	page, err := e.listView().Show(cmd.Context(), req)
	if err != nil {
		return sysError(err)
	}

	out := cmd.OutOrStdout()
	if f.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	if page.Query == "" {
		fmt.Fprintln(out, "Listed fields:")
		for _, field := range page.Listed {
			fmt.Fprintf(out, "  %s (%s)\n", field.Label, field.IndexName)
		}
		return nil
	}
	fmt.Fprintf(out, "%d results for %q, page %d of %d\n", page.Total, page.Query, page.Page, page.Pages)
	for _, doc := range page.Documents {
		fmt.Fprintf(out, "\n%s\n", doc.ID)
		keys := make([]string, 0, len(doc.Fields))
		for k := range doc.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %v\n", k, doc.Fields[k])
		}
	}
	return nil
}
