package types

// PortMapping rewrites requests addressed to a loopback source port. Target
// is a literal endpoint ("http://127.0.0.1:9229"); when empty the endpoint is
// resolved through the tunnel service on first matching request.
type PortMapping struct {
	SourcePort int    `json:"sourcePort" yaml:"source_port"`
	Target     string `json:"target,omitempty" yaml:"target,omitempty"`
}

// ContentOptions configures what a content surface is allowed to do. Options
// are compared by value: two descriptors with equal options are considered
// the same configuration regardless of identity.
type ContentOptions struct {
	AllowScripts       bool          `json:"allowScripts"`
	AllowForms         bool          `json:"allowForms"`
	LocalResourceRoots []string      `json:"localResourceRoots,omitempty"`
	PortMappings       []PortMapping `json:"portMapping,omitempty"`
	EnableCommandURIs  bool          `json:"enableCommandUris"`
	SanitizeHTML       bool          `json:"sanitizeHtml"`
}

// Equal reports whether two option sets are semantically identical.
// Root and mapping lists are compared in order.
func (o ContentOptions) Equal(other ContentOptions) bool {
	if o.AllowScripts != other.AllowScripts ||
		o.AllowForms != other.AllowForms ||
		o.EnableCommandURIs != other.EnableCommandURIs ||
		o.SanitizeHTML != other.SanitizeHTML {
		return false
	}
	if len(o.LocalResourceRoots) != len(other.LocalResourceRoots) {
		return false
	}
	for i, r := range o.LocalResourceRoots {
		if other.LocalResourceRoots[i] != r {
			return false
		}
	}
	if len(o.PortMappings) != len(other.PortMappings) {
		return false
	}
	for i, m := range o.PortMappings {
		if other.PortMappings[i] != m {
			return false
		}
	}
	return true
}

// ContentDescriptor is the full definition of what the surface renders.
// Descriptors are immutable: replacing one field produces a new descriptor
// with the other two untouched.
type ContentDescriptor struct {
	HTML    string         `json:"html"`
	Options ContentOptions `json:"options"`
	State   *string        `json:"state,omitempty"`
}

// WithHTML returns a copy with only the HTML replaced.
func (d ContentDescriptor) WithHTML(html string) ContentDescriptor {
	d.HTML = html
	return d
}

// WithOptions returns a copy with only the options replaced.
func (d ContentDescriptor) WithOptions(opts ContentOptions) ContentDescriptor {
	d.Options = opts
	return d
}

// WithState returns a copy with only the state replaced.
func (d ContentDescriptor) WithState(state *string) ContentDescriptor {
	d.State = state
	return d
}
