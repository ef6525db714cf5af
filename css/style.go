package css

import "fmt"

// Style selects the output formatting.
type Style int

const (
	StyleExpanded Style = iota
	StyleCompressed
)

func (s Style) String() string {
	switch s {
	case StyleCompressed:
		return "compressed"
	default:
		return "expanded"
	}
}

// ParseStyle parses a style name as used in configuration and flags.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "expanded", "":
		return StyleExpanded, nil
	case "compressed":
		return StyleCompressed, nil
	default:
		return 0, fmt.Errorf("unknown output style %q (supported: expanded, compressed)", name)
	}
}
