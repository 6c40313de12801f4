package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/internal/service"
)

type canonicalizeOptions struct {
	format   string
	defaults bool
	aliases  bool
	diff     bool
}

func newCanonicalizeCmd(global *globalOptions) *cobra.Command {
	opts := &canonicalizeOptions{}
	cmd := &cobra.Command{
		Use:   "canonicalize SCHEMA [FILE]",
		Short: "Print the canonical form of a valid document",
		Long: `Validate a document and print it re-encoded: sorted keys, wire names,
defaults omitted unless --defaults is set. With --diff the RFC 6902 patch
from the input to the canonical form is printed instead.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanonicalize(cmd, global, opts, args[0], args[1:])
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "auto", "input format: json, yaml or auto")
	cmd.Flags().BoolVar(&opts.defaults, "defaults", false, "emit fields whose value came from a default")
	cmd.Flags().BoolVar(&opts.aliases, "aliases", true, "emit wire names (e.g. from) instead of field names (e.g. offset)")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print a JSON Patch from the input to the canonical form")
	return cmd
}

func runCanonicalize(cmd *cobra.Command, global *globalOptions, opts *canonicalizeOptions, id string, args []string) error {
	cfg, cat, err := global.load()
	if err != nil {
		return err
	}
	data, format, err := readInput(cmd, args, opts.format)
	if err != nil {
		return err
	}
	doc, err := service.Decode(data, format, cfg.Decode.Options())
	if err != nil {
		return reportInvalid(cmd, err)
	}
	tree, err := cat.Validate(id, doc)
	if err != nil {
		return reportInvalid(cmd, err)
	}
	canonical, err := g.Marshal(tree, g.SerializeOpt{IncludeDefaults: opts.defaults, UseWireAliases: opts.aliases})
	if err != nil {
		return err
	}
	if !opts.diff {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(canonical))
		return err
	}

	// The input may be YAML; compare its JSON rendering.
	original, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	patch, err := jsondiff.CompareJSON(original, canonical)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	if len(patch) == 0 {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return err
	}
	return writeJSON(cmd.OutOrStdout(), patch)
}

func reportInvalid(cmd *cobra.Command, err error) error {
	iss, ok := g.AsIssues(err)
	if !ok {
		return err
	}
	if rerr := report(cmd, "text", iss.Sorted(), nil); rerr != nil {
		return rerr
	}
	return errInvalid
}
