package main

import (
	"fmt"

	"github.com/spf13/cobra"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/internal/service"
)

type validateOptions struct {
	format   string
	output   string
	failFast bool
}

func newValidateCmd(global *globalOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate SCHEMA [FILE]",
		Short: "Validate a document",
		Long: `Validate a JSON or YAML document against a schema id (see "esguard schema").
Reads stdin when FILE is omitted or "-". Exits 1 when the document is invalid.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, global, opts, args[0], args[1:])
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "auto", "input format: json, yaml or auto")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop at the first issue")
	return cmd
}

func runValidate(cmd *cobra.Command, global *globalOptions, opts *validateOptions, id string, args []string) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unknown output %q: want text or json", opts.output)
	}
	cfg, cat, err := global.load()
	if err != nil {
		return err
	}
	schema, err := cat.Schema(id)
	if err != nil {
		return err
	}
	var vopts []g.ValidatorOption
	if opts.failFast {
		vopts = append(vopts, g.WithFailFast())
	}
	v, err := schema.Validator(vopts...)
	if err != nil {
		return err
	}
	data, format, err := readInput(cmd, args, opts.format)
	if err != nil {
		return err
	}

	var warnings g.Issues
	dopt := cfg.Decode.Options()
	dopt.Warnings = func(it g.Issue) { warnings = append(warnings, it) }
	doc, err := service.Decode(data, format, dopt)
	if err == nil {
		_, err = v.Validate(doc)
	}
	iss, invalid := g.AsIssues(err)
	if err != nil && !invalid {
		return err
	}
	if err := report(cmd, opts.output, iss.Sorted(), warnings); err != nil {
		return err
	}
	if invalid {
		return errInvalid
	}
	return nil
}

func report(cmd *cobra.Command, output string, iss, warnings g.Issues) error {
	out := cmd.OutOrStdout()
	if output == "json" {
		body := map[string]any{"valid": len(iss) == 0}
		if len(iss) > 0 {
			body["issues"] = iss
		}
		if len(warnings) > 0 {
			body["warnings"] = warnings
		}
		return writeJSON(out, body)
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s: %s\n", w.Path.Pointer(), w.Code, w.Message)
	}
	if len(iss) == 0 {
		fmt.Fprintln(out, "ok")
		return nil
	}
	for _, it := range iss {
		fmt.Fprintf(out, "%s: %s: %s\n", it.Path.Pointer(), it.Code, it.Message)
	}
	fmt.Fprintf(out, "%d issue(s)\n", len(iss))
	return nil
}
