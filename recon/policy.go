package recon

// Policy is the effective per-domain configuration of the diff engine.
type Policy struct {
	// IgnoredTypes are excluded from both sides before diffing, as if
	// records of these types did not exist.
	IgnoredTypes []string
	// PreserveRemote suppresses deletion of observed records that have no
	// desired counterpart.
	PreserveRemote bool
}

// DefaultPolicy ignores SOA records only. SOA changes automatically and is
// handled by the provider, so deleting or diffing it makes no sense.
func DefaultPolicy() Policy {
	return Policy{IgnoredTypes: []string{"SOA"}}
}

func (p Policy) Ignores(typ string) bool {
	for _, t := range p.IgnoredTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// PolicyOverride is the optional per-domain policy block of a declarative
// config file. A set field replaces the corresponding global field entirely,
// an overriding ignore_types list is never unioned with the global one.
type PolicyOverride struct {
	IgnoredTypes   *[]string `json:"ignore_types,omitempty"`
	PreserveRemote *bool     `json:"preserve_remote,omitempty"`
}

// Resolve merges the global policy with a per-domain override.
func Resolve(global Policy, override *PolicyOverride) Policy {
	effective := global
	if override == nil {
		return effective
	}
	if override.IgnoredTypes != nil {
		effective.IgnoredTypes = append([]string(nil), (*override.IgnoredTypes)...)
	}
	if override.PreserveRemote != nil {
		effective.PreserveRemote = *override.PreserveRemote
	}
	return effective
}
