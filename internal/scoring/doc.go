// Package scoring holds the pure parts of career-fit scoring: weight
// arithmetic, career path matching and quiz grading. Nothing in this package
// performs I/O or keeps package-level state.
package scoring
