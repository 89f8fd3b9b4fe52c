package wizard

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// Validator maps the form to the errors of one step. It must not mutate the
// form.
type Validator func(FormState) ErrorMap

// Rule adds at most one entry to errs. The first failure recorded for a field
// wins, so presence rules go before format rules.
type Rule func(form FormState, errs ErrorMap)

// Rules composes rules into a Validator.
func Rules(rules ...Rule) Validator {
	return func(form FormState) ErrorMap {
		errs := ErrorMap{}
		for _, rule := range rules {
			rule(form, errs)
		}
		return errs
	}
}

func fail(errs ErrorMap, field, msg string) {
	if _, ok := errs[field]; !ok {
		errs[field] = msg
	}
}

// RequiredText fails when the trimmed text is empty.
func RequiredText(section, field, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		if strings.TrimSpace(form.Get(section, field).Text) == "" {
			fail(errs, field, msg)
		}
	}
}

// Present fails when the value is empty. Unlike RequiredText it does not trim,
// so secrets made of spaces count as given.
func Present(section, field, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		if form.Get(section, field).Text == "" {
			fail(errs, field, msg)
		}
	}
}

// RequiredChoice fails when no option is selected, or when options are given
// and the selection is not one of them.
func RequiredChoice(section, field, msg string, options ...string) Rule {
	return func(form FormState, errs ErrorMap) {
		v := form.Get(section, field).Text
		if v == "" {
			fail(errs, field, msg)
			return
		}
		if len(options) == 0 {
			return
		}
		for _, o := range options {
			if o == v {
				return
			}
		}
		fail(errs, field, msg)
	}
}

// RequiredDate fails when the date is unset.
func RequiredDate(section, field, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		if _, ok := form.Get(section, field).Time(); !ok {
			fail(errs, field, msg)
		}
	}
}

// RequiredFile fails when no file handle is attached.
func RequiredFile(section, field, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		if form.Get(section, field).File == nil {
			fail(errs, field, msg)
		}
	}
}

// MinDigits fails when the value, whitespace removed, is not made of at least
// n digits. Empty values are left to a presence rule.
func MinDigits(section, field string, n int, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		v := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, form.Get(section, field).Text)
		if v == "" {
			return
		}
		count := 0
		for _, r := range v {
			if r < '0' || r > '9' {
				fail(errs, field, msg)
				return
			}
			count++
		}
		if count < n {
			fail(errs, field, msg)
		}
	}
}

// Email fails when a non-empty value does not look like an address.
func Email(section, field, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		v := form.Get(section, field).Text
		if v != "" && !govalidator.IsEmail(v) {
			fail(errs, field, msg)
		}
	}
}

// MinLength fails when a non-empty value has fewer than n characters.
func MinLength(section, field string, n int, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		v := form.Get(section, field).Text
		if v != "" && utf8.RuneCountInString(v) < n {
			fail(errs, field, msg)
		}
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(section, field string, n int, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		if utf8.RuneCountInString(form.Get(section, field).Text) > n {
			fail(errs, field, msg)
		}
	}
}

// MatchField fails when field differs from other in the same section.
func MatchField(section, field, other, msg string) Rule {
	return func(form FormState, errs ErrorMap) {
		if form.Get(section, field).Text != form.Get(section, other).Text {
			fail(errs, field, msg)
		}
	}
}
