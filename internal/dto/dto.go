// Package dto holds the transfer objects exchanged with API clients.
//
// Every optional field is a pointer (or a nil-able slice for image bytes)
// so that a transfer object can tell an absent field apart from a field
// explicitly set to its zero value.  A full update treats nil as "clear";
// a merge patch treats nil as "leave untouched".
//
// Struct tags carry two rule sets checked by the validator: `validate`
// applies to create and full update, `patch` applies to merge patches,
// where only the fields that are present are checked.
package dto

func sameID(a, b *uint64) bool {
	return a != nil && b != nil && *a == *b
}
