// Package validate provides struct-tag validation for request inputs.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required       field must not be zero/empty
//	nullable       if empty, skip all remaining rules for this field
//	email          valid email address
//	numeric        any number
//	integer        whole number
//	min=N          string: min char length | number: min value
//	max=N          string: max char length | number: max value
//	gt=N           number > N
//	gte=N          number >= N
//	lt=N           number < N
//	lte=N          number <= N
//
// Example:
//
//	type SweetInput struct {
//	    Name     string  `json:"name"     validate:"required,min=1,max=100"`
//	    Price    float64 `json:"price"    validate:"gte=0"`
//	    Quantity int     `json:"quantity" validate:"gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Struct validates v (a struct or pointer to struct) against its `validate`
// tags. The returned map is keyed by the field's json tag (or lower-cased
// field name); a nil/empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := map[string]string{}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}

		name := fieldName(field)
		value := rv.Field(i)

		// Pointer fields: nil means absent, which only "required" rejects.
		if value.Kind() == reflect.Ptr {
			if value.IsNil() {
				if hasRule(tag, "required") {
					errs[name] = "is required"
				}
				continue
			}
			value = value.Elem()
		}

		if msg := check(value, tag); msg != "" {
			errs[name] = msg
		}
	}

	return errs
}

// HasErrors reports whether the error map contains any entries.
func HasErrors(errs map[string]string) bool {
	return len(errs) > 0
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag != "" {
		if idx := strings.IndexByte(tag, ','); idx != -1 {
			tag = tag[:idx]
		}
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return strings.ToLower(field.Name)
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if strings.TrimSpace(r) == rule {
			return true
		}
	}
	return false
}

func check(value reflect.Value, tag string) string {
	for _, raw := range strings.Split(tag, ",") {
		rule := strings.TrimSpace(raw)
		if rule == "" {
			continue
		}

		name, param := rule, ""
		if idx := strings.IndexByte(rule, '='); idx != -1 {
			name, param = rule[:idx], rule[idx+1:]
		}

		switch name {
		case "required":
			if isZero(value) {
				return "is required"
			}
		case "nullable":
			if isZero(value) {
				return ""
			}
		case "email":
			if !emailRe.MatchString(value.String()) {
				return "must be a valid email address"
			}
		case "numeric":
			if !isNumeric(value) {
				return "must be a number"
			}
		case "integer":
			if !isInteger(value) {
				return "must be an integer"
			}
		case "min":
			if msg := compare(value, param, func(v, p float64) bool { return v >= p },
				fmt.Sprintf("must be at least %s", param)); msg != "" {
				return msg
			}
		case "max":
			if msg := compare(value, param, func(v, p float64) bool { return v <= p },
				fmt.Sprintf("must be at most %s", param)); msg != "" {
				return msg
			}
		case "gt":
			if msg := compareNum(value, param, func(v, p float64) bool { return v > p },
				fmt.Sprintf("must be greater than %s", param)); msg != "" {
				return msg
			}
		case "gte":
			if msg := compareNum(value, param, func(v, p float64) bool { return v >= p },
				fmt.Sprintf("must be at least %s", param)); msg != "" {
				return msg
			}
		case "lt":
			if msg := compareNum(value, param, func(v, p float64) bool { return v < p },
				fmt.Sprintf("must be less than %s", param)); msg != "" {
				return msg
			}
		case "lte":
			if msg := compareNum(value, param, func(v, p float64) bool { return v <= p },
				fmt.Sprintf("must be at most %s", param)); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.String:
		_, err := strconv.ParseFloat(v.String(), 64)
		return err == nil
	default:
		return false
	}
}

func isInteger(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		return v.Float() == float64(int64(v.Float()))
	case reflect.String:
		_, err := strconv.ParseInt(v.String(), 10, 64)
		return err == nil
	default:
		return false
	}
}

// compare applies min/max: string length for strings, magnitude for numbers.
func compare(v reflect.Value, param string, ok func(v, p float64) bool, msg string) string {
	p, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return ""
	}

	if v.Kind() == reflect.String {
		if !ok(float64(len([]rune(v.String()))), p) {
			return msg
		}
		return ""
	}
	return compareNum(v, param, ok, msg)
}

// compareNum applies a numeric comparison rule.
func compareNum(v reflect.Value, param string, ok func(v, p float64) bool, msg string) string {
	p, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return ""
	}

	var n float64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n = float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		n = v.Float()
	case reflect.String:
		parsed, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return "must be a number"
		}
		n = parsed
	default:
		return ""
	}

	if !ok(n, p) {
		return msg
	}
	return ""
}
