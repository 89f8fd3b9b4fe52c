package httptransport

import (
	"html"
	"reflect"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// stripMarkup removes any markup from s. Entities escaped by the policy are
// decoded again since values travel as JSON, not HTML.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return html.UnescapeString(strictPolicy().Sanitize(s))
}

// cleanText trims s and strips any markup.
func cleanText(s string) string {
	return strings.TrimSpace(stripMarkup(s))
}

// sanitize cleans every string field of the struct v points to. Fields tagged
// `sanitize:"-"` are left untouched.
func sanitize(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() || typ.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		if field.Kind() == reflect.String {
			field.SetString(cleanText(field.String()))
		}
	}
}
