package out

import "context"

// Completer is the minimal reasoning-service surface the agents need: one
// prompt in, one text completion out. Implementations strip transport
// concerns (retries, model choice) away from the callers.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
