package util

import (
	"reflect"
	"strconv"

	"github.com/owlhub/owlflow-jira/model"
)

const FLATTEN_SEPARATOR = "_"

// Flatten turns a nested structure into a flat DataContext whose keys are
// "<prefix>_<path>", with path segments joined by "_" and array elements
// addressed by index. Scalar and nil leaves are kept as-is, nested empty
// objects and arrays are kept as leaves. A scalar value is stored under the
// bare prefix; an empty top-level object yields an empty context.
func Flatten(value any, prefix string) model.DataContext {
	out := make(model.DataContext)
	flatten(value, prefix, true, out)
	return out
}

func flatten(value any, path string, top bool, out model.DataContext) {
	switch v := value.(type) {
	case nil:
		out[path] = nil
	case map[string]any:
		if len(v) == 0 && !top {
			out[path] = v
			return
		}
		for k, item := range v {
			flatten(item, path+FLATTEN_SEPARATOR+k, false, out)
		}
	case model.ActionResult:
		flatten(map[string]any(v), path, top, out)
	case model.DataContext:
		flatten(map[string]any(v), path, top, out)
	case []any:
		if len(v) == 0 && !top {
			out[path] = v
			return
		}
		for i, item := range v {
			flatten(item, path+FLATTEN_SEPARATOR+strconv.Itoa(i), false, out)
		}
	default:
		flattenReflect(value, path, top, out)
	}
}

// flattenReflect handles typed slices and maps such as []string or
// map[string]string.
func flattenReflect(value any, path string, top bool, out model.DataContext) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			out[path] = nil
			return
		}
		if rv.Len() == 0 && !top {
			out[path] = value
			return
		}
		for i := 0; i < rv.Len(); i++ {
			flatten(rv.Index(i).Interface(), path+FLATTEN_SEPARATOR+strconv.Itoa(i), false, out)
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			out[path] = value
			return
		}
		if rv.IsNil() {
			out[path] = nil
			return
		}
		if rv.Len() == 0 && !top {
			out[path] = value
			return
		}
		iter := rv.MapRange()
		for iter.Next() {
			flatten(iter.Value().Interface(), path+FLATTEN_SEPARATOR+iter.Key().String(), false, out)
		}
	default:
		out[path] = value
	}
}
