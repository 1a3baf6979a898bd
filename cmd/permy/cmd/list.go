package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the guarded resources and their labels",
	Long: `List every controller method protected by one of the configured filters.
Missing entries are appended to the labels file with default names.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.close()

		labels, err := a.catalog.Build(cmd.Context())
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(cmd, labels)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RESOURCE\tMETHOD\tNAME\tDESCRIPTION")
		for _, key := range labels.Keys() {
			entry := labels[key]
			fmt.Fprintf(w, "%s\t\t%s\t%s\n", key, entry.Name, entry.Desc)

			methods := make([]string, 0, len(entry.Methods))
			for method := range entry.Methods {
				methods = append(methods, method)
			}
			sort.Strings(methods)
			for _, method := range methods {
				label := entry.Methods[method]
				fmt.Fprintf(w, "\t%s\t%s\t%s\n", method, label.Name, label.Desc)
			}
		}
		return w.Flush()
	},
}
