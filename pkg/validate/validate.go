// Package validate checks form structs against rules declared in a
// `validate` struct tag and reports one message per failing field.
//
// Supported rules (comma-separated):
//
//	required     field must not be empty (whitespace counts as empty)
//	nullable     if empty, skip the remaining rules for this field
//	email        valid email address; an empty value fails too
//	min=N        string: at least N characters | number: at least N
//	max=N        string: at most N characters  | number: at most N
//	digits=N     exactly N decimal digits
//	same=field   value must equal the sibling field with that json name
//	in=a|b|c     value must be one of the listed items
//
// Messages default to a generic sentence and are overridden per field and
// rule, the way form screens word them:
//
//	type Signup struct {
//	    Password string `json:"password" validate:"required,min=6"`
//	    Confirm  string `json:"confirm"  validate:"same=password"`
//	}
//
//	errs := validate.Struct(in, validate.Messages{
//	    "password.required": "Password is required",
//	    "password.min":      "Password must be at least 6 characters",
//	    "confirm":           "Passwords do not match",
//	})
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors maps a json field name to its first failing message.
type Errors map[string]string

// Messages overrides default messages. Keys are "field.rule" or "field"
// (any rule of that field).
type Messages map[string]string

// Struct validates all exported fields of v that carry a `validate` tag.
// Fields are checked in declaration order; only the first failing rule of a
// field is reported.
func Struct(v interface{}, msgs ...Messages) Errors {
	errs := Errors{}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	custom := merge(msgs)
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			key, _, _ := strings.Cut(rule, "=")
			if msg := check(rule, name, value, rv); msg != "" {
				errs[name] = custom.pick(name, key, msg)
				break
			}
		}
	}
	return errs
}

// HasErrors reports whether errs is non-empty.
func HasErrors(errs Errors) bool { return len(errs) > 0 }

// First returns the message of the first field in order that failed, or "".
func (e Errors) First(order ...string) string {
	for _, f := range order {
		if msg, ok := e[f]; ok {
			return msg
		}
	}
	return ""
}

// Email reports whether s is a well-formed address.
func Email(s string) bool {
	return s != "" && emailRE.MatchString(s)
}

// Digits reports whether s is exactly n decimal digits.
func Digits(s string, n int) bool {
	return len(s) == n && digitsOnlyRE.MatchString(s)
}

// ─── Rules ────────────────────────────────────────────────────────────────────

func check(rule, field string, v, parent reflect.Value) string {
	raw := stringOf(v)
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !Email(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "min":
		n := parseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(utf8.RuneCountInString(raw)) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := parseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(utf8.RuneCountInString(raw)) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "digits":
		n, _ := strconv.Atoi(param)
		if !Digits(raw, n) {
			return fmt.Sprintf("The %s must be %s digits.", field, param)
		}
	case "same":
		other := sibling(parent, param)
		if other == nil || stringOf(*other) != raw {
			return fmt.Sprintf("The %s and %s must match.", field, param)
		}
	case "in":
		for _, a := range strings.Split(param, "|") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var (
	emailRE      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitsOnlyRE = regexp.MustCompile(`^\d+$`)
)

func merge(msgs []Messages) Messages {
	out := Messages{}
	for _, m := range msgs {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func (m Messages) pick(field, rule, fallback string) string {
	if msg, ok := m[field+"."+rule]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return fallback
}

func stringOf(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		return stringOf(v.Elem())
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return 0
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}

func sibling(parent reflect.Value, name string) *reflect.Value {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == name {
			v := parent.Field(i)
			return &v
		}
	}
	return nil
}
