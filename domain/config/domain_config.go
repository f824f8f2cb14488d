// Package config holds domain-level business rules, decoupled from
// infrastructure configuration.
package config

// DomainConfig carries the business limits applied by the document aggregate
type DomainConfig struct {
	// MaxNodesPerDocument caps the visual node set of one document
	MaxNodesPerDocument int
	// MaxEdgesPerDocument caps the visual edge set of one document
	MaxEdgesPerDocument int
}

// DefaultDomainConfig returns the limits used when no overrides are loaded
func DefaultDomainConfig() DomainConfig {
	return DomainConfig{
		MaxNodesPerDocument: 200,
		MaxEdgesPerDocument: 500,
	}
}
