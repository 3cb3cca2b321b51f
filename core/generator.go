package core

import "context"

type (
	// GenerateOptions are the render parameters passed to a Generator.
	GenerateOptions struct {
		Width  int
		Height int
		Seed   int64
		Model  string
		Style  string
	}

	// Generator turns a prompt into an image descriptor or fails. The caller
	// bounds the call with a context deadline; the generator never retries
	// internally.
	Generator interface {
		Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error)
	}
)
