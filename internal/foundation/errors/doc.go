// Package errors provides the classified error primitives used across blogbuilder.
//
// Errors carry a category (what kind of failure), a severity (how far it propagates)
// and free-form context for structured logging. The CLI adapter turns them into a
// user-facing message and a process exit code.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryTemplate, "template not found").
//		WithContext("category", name).
//		Build()
package errors
