package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
	"github.com/owlhub/owlflow-jira/model"
)

var tokenPattern = regexp.MustCompile("{(.*?)}")

// ResolveParams copies params, replacing every "{$.key}" token found in string
// values with the DataContext value it points at. A string that is exactly
// one token keeps the referenced value's type.
func ResolveParams(data model.DataContext, params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	flowData := map[string]any(data)
	output := make(map[string]any, len(params))
	resolveParams(flowData, params, output)
	return output
}

func resolveParams(flowData map[string]any, params map[string]any, output map[string]any) {
	for k, v := range params {
		switch val := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			output[k] = out
			resolveParams(flowData, val, out)
		case string:
			output[k] = resolveString(flowData, val)
		case []any:
			output[k] = resolveList(flowData, val)
		default:
			output[k] = v
		}
	}
}

func resolveList(flowData map[string]any, list []any) []any {
	output := make([]any, 0, len(list))
	for _, v := range list {
		switch val := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			resolveParams(flowData, val, out)
			output = append(output, out)
		case string:
			output = append(output, resolveString(flowData, val))
		case []any:
			output = append(output, resolveList(flowData, val))
		default:
			output = append(output, v)
		}
	}
	return output
}

func resolveString(flowData map[string]any, s string) any {
	tokens := tokenPattern.FindAllString(s, -1)
	if len(tokens) == 0 {
		return s
	}
	tokenMap := make(map[string]any)
	for _, token := range tokens {
		tmatch := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
		if !strings.HasPrefix(tmatch, "$") {
			continue
		}
		value, err := jsonpath.JsonPathLookup(flowData, tmatch)
		if err != nil {
			continue
		}
		tokenMap[token] = value
	}
	if len(tokens) == 1 && tokens[0] == s {
		if value, ok := tokenMap[s]; ok {
			return value
		}
		return s
	}
	newStr := s
	for t, tv := range tokenMap {
		newStr = strings.ReplaceAll(newStr, t, fmt.Sprintf("%v", tv))
	}
	return newStr
}
