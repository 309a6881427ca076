package css

import "fmt"

// ParseError is returned for selectors that do not follow the grammar.
type ParseError struct {
	Pos      int
	Fragment string
	Reason   string
}

// UnsupportedFeatureError is returned for valid css that is outside of the supported subset,
// e.g. pseudo elements, namespaces or level 4 pseudo classes.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *ParseError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("invalid selector: %s (at %d)", e.Reason, e.Pos)
	}
	return fmt.Sprintf("invalid selector: %s (at %d: %q)", e.Reason, e.Pos, e.Fragment)
}

func (e *UnsupportedFeatureError) Error() string {
	return "unsupported selector feature: " + e.Feature
}
