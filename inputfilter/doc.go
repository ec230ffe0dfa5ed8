// Package inputfilter implements the live validation tree: inputs, input
// filters and collection input filters.
//
// Filters and validators are recorded as named specifications in
// priority-ordered chains. Executing them is left to the application.
package inputfilter
