package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/esguard/grammar"
	"github.com/reoring/esguard/internal/config"
	"github.com/reoring/esguard/internal/service"
)

// errInvalid marks a document that was read and rejected; it maps to exit
// status 1, every other failure to 2.
var errInvalid = errors.New("document is invalid")

type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "esguard",
		Short: "Validate search-engine JSON documents against their grammars",
		Long: `esguard checks search requests, ingest pipelines, watches and index
definitions before they reach the cluster. Documents are validated
against closed grammars, bounded in size and depth, and re-encoded in
a canonical form.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (defaults plus ESGUARD_* environment when empty)")
	root.AddCommand(
		newValidateCmd(opts),
		newCanonicalizeCmd(opts),
		newSchemaCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

func execute(args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalid):
		return 1
	default:
		fmt.Fprintln(root.ErrOrStderr(), "esguard:", err)
		return 2
	}
}

// load returns the configuration and the built-in catalog with its cap
// overrides applied.
func (o *globalOptions) load() (*config.Config, *grammar.Catalog, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	cat, err := service.ApplyCaps(grammar.Default(), cfg.Caps)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cat, nil
}

// readInput reads the named file, or stdin for "-" and no name. The format
// flag wins over the file extension.
func readInput(cmd *cobra.Command, args []string, format string) ([]byte, service.Format, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", name, err)
	}
	switch format {
	case "json":
		return data, service.FormatJSON, nil
	case "yaml":
		return data, service.FormatYAML, nil
	case "", "auto":
		ext := filepath.Ext(name)
		if ext == ".yaml" || ext == ".yml" {
			return data, service.FormatYAML, nil
		}
		return data, service.FormatJSON, nil
	default:
		return nil, 0, fmt.Errorf("unknown format %q: want json, yaml or auto", format)
	}
}

// writeJSON prints v as indented JSON. Indentation is applied to the compact
// encoding because goccy's MarshalIndent does not terminate on the recursive
// schema export.
func writeJSON(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
