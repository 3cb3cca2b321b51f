package generation

import (
	"context"
	"fmt"
	"time"

	"gjinn/core"
)

// Static is the offline generator: it fabricates deterministic descriptors
// without touching the network. Selected at construction time for demos
// and tests; it also doubles as the injectable fake in handler tests.
type Static struct {
	// Err, when set, makes every call fail with it.
	Err error
}

func (s *Static) Generate(_ context.Context, prompt string, opts core.GenerateOptions) (*core.Result, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &core.Result{
		URL:         fmt.Sprintf("https://placehold.local/%dx%d?seed=%d", opts.Width, opts.Height, opts.Seed),
		Width:       opts.Width,
		Height:      opts.Height,
		Seed:        opts.Seed,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
