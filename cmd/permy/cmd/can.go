package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/permy/pdp/model"
)

var (
	canOperator         string
	canResourceOperator string
	canRecordOperator   string
	canExtraCheck       bool
	canNegate           bool
	canGodmode          bool
	canDebug            bool
)

func init() {
	canCmd.Flags().StringVar(&canOperator, "operator", "", "Operator folding the decision with --extra-check (and, or, xor)")
	canCmd.Flags().StringVar(&canResourceOperator, "resource-operator", "", "Operator folding the requested resources")
	canCmd.Flags().StringVar(&canRecordOperator, "record-operator", "", "Operator folding the records of one resource")
	canCmd.Flags().BoolVar(&canExtraCheck, "extra-check", true, "Extra condition folded into the decision (default false with --cant)")
	canCmd.Flags().BoolVar(&canNegate, "cant", false, "Ask whether the subject can NOT access the resources")
	canCmd.Flags().BoolVar(&canGodmode, "godmode", false, "Grant everything for this check")
	canCmd.Flags().BoolVar(&canDebug, "debug", false, "Fail instead of defaulting to deny")
	rootCmd.AddCommand(canCmd)
}

var canCmd = &cobra.Command{
	Use:   "can <subject-id> <routes>",
	Short: "Check whether a subject may access routes",
	Long: `Check whether a subject may access one or more routes. Routes are a comma
separated list of route names or Controller@method actions.

Exit status is 0 when allowed, 1 when denied and 2 when the subject is unknown.

Examples:
  permy can 42 users.index
  permy can 42 'users.index,users.edit' --resource-operator or
  permy can 42 'App\Http\Controllers\UsersController@destroy' --cant -o json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.close()

		subject, err := a.store.FindSubject(cmd.Context(), args[0])
		if errors.Is(err, permy_errors.ErrSubjectNotFound) {
			fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("Subject %s not found", args[0]))
			return &exitError{code: exitSubjectNotFound}
		}
		if err != nil {
			return err
		}

		decision, err := a.engine.Explain(cmd.Context(), subject, engine.ParseRefs(args[1]), canOptions(cmd), canNegate)
		if err != nil {
			return err
		}

		if err := printDecision(cmd, decision); err != nil {
			return err
		}
		if !decision.Allowed {
			return &exitError{code: exitDenied}
		}
		return nil
	},
}

func canOptions(cmd *cobra.Command) engine.Options {
	opts := engine.Options{
		Operator:         engine.Operator(canOperator),
		ResourceOperator: engine.Operator(canResourceOperator),
		RecordOperator:   engine.Operator(canRecordOperator),
	}
	if cmd.Flags().Changed("extra-check") {
		opts.ExtraCheck = engine.Bool(canExtraCheck)
	}
	if cmd.Flags().Changed("godmode") {
		opts.Overrides.Godmode = engine.Bool(canGodmode)
	}
	if cmd.Flags().Changed("debug") {
		opts.Overrides.Debug = engine.Bool(canDebug)
	}
	return opts
}

func printDecision(cmd *cobra.Command, decision *pdp_model.Decision) error {
	if outputFormat != "table" {
		return formatOutput(cmd, decision)
	}

	out := cmd.OutOrStdout()
	if decision.Allowed {
		fmt.Fprintln(out, color.GreenString("ALLOWED"))
	} else {
		fmt.Fprintln(out, color.RedString("DENIED"))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROUTE\tRESOURCE\tACTION\tRECORDS\tRESULT")
	for _, r := range decision.Resources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.Ref, r.ResourceKey, r.Action, r.Records, r.Reason)
	}
	return w.Flush()
}

