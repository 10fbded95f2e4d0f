// Package form binds raw request fields to typed values and applies per-field
// validation. Every field rule runs on each submission; a form is accepted
// only when no field collected an error. Failed submissions keep the raw
// input so the page can be redisplayed with what the user typed.
package form

// Errors maps a field name to its user-facing validation message.
type Errors map[string]string

func (e Errors) add(field, msg string) {
	if _, taken := e[field]; !taken {
		e[field] = msg
	}
}

// Has reports whether the field has a validation error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}
