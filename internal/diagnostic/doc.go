// Package diagnostic collects the problems found while a deserializer is
// assembled.
//
// Key capabilities:
//   - Errors that fail Build, matchable with errors.Is
//   - Warnings about registrations that are legal but likely mistakes
//   - Entries tagged with the registration they relate to
package diagnostic
