package http

import (
	"math"
	"reflect"
	"strconv"
)

// normalizeArgs resolves the loose (url?, data?, options?) call shape into
// the canonical one. The first argument is the url when it is a string or a
// number; otherwise the url is empty and every argument shifts one slot.
// Body verbs read (data, options), the others read (options). Anything that
// does not fit its slot is ignored.
func normalizeArgs(withBody bool, args []any) (url string, data any, opts *Options) {
	rest := args
	if len(args) > 0 {
		if s, ok := urlArg(args[0]); ok {
			url = s
			rest = args[1:]
		}
	}

	if !withBody {
		if len(rest) > 0 {
			opts = optionsArg(rest[0])
		}
		return url, nil, opts
	}

	switch len(rest) {
	case 0:
	case 1:
		if o := optionsArg(rest[0]); o != nil {
			return url, nil, o
		}
		data = rest[0]
	default:
		data = rest[0]
		opts = optionsArg(rest[1])
	}
	return url, data, opts
}

// urlArg reports whether v is a url argument and returns its string form.
func urlArg(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return formatNumber(rv.Float()), true
	}
	return "", false
}

func optionsArg(v any) *Options {
	switch o := v.(type) {
	case *Options:
		return o
	case Options:
		return &o
	}
	return nil
}

// truthy mirrors the presence check used for request data: nil, false,
// numeric zero, NaN and the empty string mean "no body".
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
