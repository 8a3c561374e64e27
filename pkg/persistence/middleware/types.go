package middleware

import "github.com/kasimali67/ai-call-agent/pkg/ports"

// Middleware allows wrapping a CallStore to add behavior.
type Middleware func(ports.CallStore) ports.CallStore

// Chain wraps store with mws so that the first middleware is the outermost.
func Chain(store ports.CallStore, mws ...Middleware) ports.CallStore {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			store = mws[i](store)
		}
	}
	return store
}
