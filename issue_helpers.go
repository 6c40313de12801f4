package esguard

import (
	"fmt"
	"strings"

	"github.com/reoring/esguard/i18n"
)

// IssueAt creates an Issue at the given path with a localized message built
// from code and params.
func IssueAt(p Path, code string, params map[string]any) Issue {
	return Issue{Path: p.clone(), Code: code, Message: i18n.T(code, messageData(params)), Params: params}
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: Path{}, Code: code, Message: msg})
}

// messageData flattens params into the string map the translator consumes.
func messageData(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case []string:
			out[k] = strings.Join(t, ", ")
		case nil:
			out[k] = "null"
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
