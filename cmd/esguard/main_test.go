package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), code
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidate_OK(t *testing.T) {
	out, _, code := runCLI(t, `{"query":{"match_all":{}}}`, "validate", "search")
	assert.Equal(t, 0, code)
	assert.Equal(t, "ok\n", out)
}

func TestValidate_Invalid(t *testing.T) {
	path := writeTemp(t, "q.json", `{"query":{"match_all":{}},"size":-1,"bogus":true}`)
	out, _, code := runCLI(t, "", "validate", "search", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "/bogus: unknown_field")
	assert.Contains(t, out, "/size: out_of_bounds")
	assert.Contains(t, out, "2 issue(s)")
}

func TestValidate_FailFast(t *testing.T) {
	out, _, code := runCLI(t, `{"query":{"match_all":{}},"size":-1,"bogus":true}`, "validate", "search", "--fail-fast")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "1 issue(s)")
}

func TestValidate_JSONOutput(t *testing.T) {
	out, _, code := runCLI(t, `{"query":{"match_all":{}},"size":-1}`, "validate", "search", "-o", "json")
	assert.Equal(t, 1, code)
	var body struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			Pointer string `json:"pointer"`
			Code    string `json:"code"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.False(t, body.Valid)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "/size", body.Issues[0].Pointer)
}

func TestValidate_YAMLFile(t *testing.T) {
	path := writeTemp(t, "watch.yaml", `
trigger:
  schedule:
    cron: "0 0/5 * * * ?"
input:
  simple: {}
actions:
  log:
    logging:
      text: hello
`)
	out, _, code := runCLI(t, "", "validate", "watch", path)
	assert.Equal(t, 0, code, out)
}

func TestValidate_Errors(t *testing.T) {
	_, errOut, code := runCLI(t, `{}`, "validate", "nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown schema")

	_, _, code = runCLI(t, "", "validate", "search", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 2, code)

	_, _, code = runCLI(t, `{}`, "validate", "search", "--format", "xml")
	assert.Equal(t, 2, code)
}

func TestValidate_ConfigCaps(t *testing.T) {
	cfg := writeTemp(t, "esguard.yaml", "caps:\n  search:\n    depth:\n      query: 1\n")
	doc := `{"query":{"bool":{"must":[{"match_all":{}}]}}}`

	_, _, code := runCLI(t, doc, "validate", "search")
	assert.Equal(t, 0, code)

	out, _, code := runCLI(t, doc, "--config", cfg, "validate", "search")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "depth_exceeded")
}

func TestCanonicalize(t *testing.T) {
	out, _, code := runCLI(t, `{"query":{"match_all":{}},"from":5}`, "canonicalize", "search")
	require.Equal(t, 0, code)
	assert.Equal(t, `{"from":5,"query":{"match_all":{}}}`+"\n", out)

	out, _, code = runCLI(t, `{"query":{"match_all":{}},"from":5}`, "canonicalize", "search", "--aliases=false")
	require.Equal(t, 0, code)
	assert.Equal(t, `{"offset":5,"query":{"match_all":{}}}`+"\n", out)
}

func TestCanonicalize_Diff(t *testing.T) {
	in := `{"query":{"multi_match":{"query":"x","fields":["a"]}}}`
	out, _, code := runCLI(t, in, "canonicalize", "search", "--diff", "--defaults")
	require.Equal(t, 0, code, out)
	var patch []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &patch))
	require.Len(t, patch, 1)
	assert.Equal(t, "add", patch[0]["op"])
	assert.Equal(t, "/query/multi_match/type", patch[0]["path"])
	assert.Equal(t, "best_fields", patch[0]["value"])

	out, _, code = runCLI(t, in, "canonicalize", "search", "--diff")
	require.Equal(t, 0, code)
	assert.Equal(t, "[]\n", out)
}

func TestCanonicalize_Invalid(t *testing.T) {
	out, _, code := runCLI(t, `{"query":{}}`, "canonicalize", "search")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "missing_discriminator")
}

func TestSchema(t *testing.T) {
	out, _, code := runCLI(t, "", "schema")
	require.Equal(t, 0, code)
	for _, id := range []string{"index", "pipeline", "search", "watch"} {
		assert.Contains(t, out, id)
	}

	out, _, code = runCLI(t, "", "schema", "pipeline")
	require.Equal(t, 0, code)
	var exported map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Equal(t, "pipeline", exported["$id"])
	assert.Contains(t, exported["$defs"], "processor")
	assert.True(t, strings.HasPrefix(out, "{\n  \""), "output is not indented: %.40q", out)
}

func TestSchema_ExportsEveryGrammar(t *testing.T) {
	for _, id := range []string{"index", "pipeline", "search", "watch"} {
		t.Run(id, func(t *testing.T) {
			out, errOut, code := runCLI(t, "", "schema", id)
			require.Equal(t, 0, code, errOut)
			var exported map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &exported))
			assert.Equal(t, id, exported["$id"])
			assert.NotEmpty(t, exported["$defs"])
		})
	}
}

func TestVersion(t *testing.T) {
	out, _, code := runCLI(t, "", "version")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "esguard "+Version))
}
