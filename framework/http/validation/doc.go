// Package validation checks flat string input against Laravel-style rule
// strings. It guards binding declarations arriving from manifests and
// the HTTP inspector.
//
//	v := validation.Make(map[string]string{
//	    "name":     "mailer",
//	    "concrete": "app.SmtpMailer",
//	}, validation.Rules{
//	    "name":     "required|identifier|max:255",
//	    "concrete": "nullable|identifier|max:255",
//	})
//
//	if v.Fails() {
//	    // v.Errors().Bag: {"name": ["The name field is required."]}
//	}
//
// # Available Rules
//
//   - required: present and non-empty
//   - identifier: a binding name such as Foo, app.Mailer or pkg/x.Type
//   - min:n, max:n: length bounds in UTF-8 characters
//   - boolean: true/false/1/0/yes/no (case-insensitive)
//   - integer: parseable as int
//   - in:a,b,c and not_in:a,b,c
//   - different:other: must not equal data[other]
//   - regex:pattern
//   - nullable, sometimes: an empty value skips the remaining rules
//
// A field stops at its first failing rule. *Errors implements error.
package validation
