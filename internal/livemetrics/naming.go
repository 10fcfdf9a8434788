package livemetrics

import (
	"reflect"
	"regexp"
	"strings"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z\d]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
	validTypeName   = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
)

// Underscore converts a CamelCase identifier into its lowercase,
// underscore-separated form: "HostESX" becomes "host_esx" and
// "VmOrTemplate" becomes "vm_or_template".
func Underscore(name string) string {
	name = acronymBoundary.ReplaceAllString(name, "${1}_${2}")
	name = wordBoundary.ReplaceAllString(name, "${1}_${2}")
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToLower(name)
}

// TypeNameOf returns the canonical entity type name of v's type, dropping
// the package qualifier and any pointer indirection.
func TypeNameOf(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	name := t.Name()
	// Generic instantiations carry their type arguments in brackets.
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return Underscore(name)
}

// ValidTypeName reports whether name is a canonical entity type name.
func ValidTypeName(name string) bool {
	return validTypeName.MatchString(name)
}

// ConfigFileName returns the configuration resource name for an entity type.
func ConfigFileName(entityType string) string {
	return entityType + ".yaml"
}
