package provider

import "fmt"

// Registry holds the configured funding providers and allows lookup
// by provider name. It performs no payment logic itself.
type Registry struct {
	clients map[string]FundingClient
}

// NewRegistry registers the given funding providers by name.
// Provider names must be unique.
func NewRegistry(list ...FundingClient) *Registry {
	m := make(map[string]FundingClient)
	for _, c := range list {
		m[c.Name()] = c
	}
	return &Registry{clients: m}
}

// Get returns the funding provider by name or an error if not registered.
func (r *Registry) Get(name string) (FundingClient, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("unknown funding provider: %s", name)
	}
	return c, nil
}
