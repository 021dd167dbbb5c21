// Package app defines the process entrypoint contract.
package app

// Runner is implemented by long-running server processes.
type Runner interface {
	Run() error
}
