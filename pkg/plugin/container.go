package plugin

import (
	"fmt"

	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

// container adds the .container component: full width, capped at each
// screen's min-width from that breakpoint up.
//
// Options:
//
//	center: true        // margin-left/right auto
//	padding: "1rem"     // horizontal padding
type container struct {
	center  bool
	padding string
}

func newContainer(opts map[string]any) (Plugin, error) {
	c := container{}
	if v, ok := opts["center"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("center: expected a boolean, got %T", v)
		}
		c.center = b
	}
	if v, ok := opts["padding"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("padding: expected a string, got %T", v)
		}
		if err := theme.ValidateLength(s); err != nil {
			return nil, fmt.Errorf("padding: %w", err)
		}
		c.padding = s
	}
	return c, nil
}

func (container) Name() string { return "container" }

func (c container) ContributeUtilities(t *theme.Theme) ([]utility.Definition, error) {
	props := []utility.Property{{Name: "width", Value: "100%"}}
	if c.center {
		props = append(props,
			utility.Property{Name: "margin-right", Value: "auto"},
			utility.Property{Name: "margin-left", Value: "auto"})
	}
	if c.padding != "" {
		props = append(props,
			utility.Property{Name: "padding-right", Value: c.padding},
			utility.Property{Name: "padding-left", Value: c.padding})
	}

	screens := t.Screens()
	blocks := make([]utility.Block, 0, len(screens))
	for _, s := range screens {
		blocks = append(blocks, utility.Block{
			AtRule:     variant.MinWidthQuery(s.MinWidth),
			Properties: []utility.Property{{Name: "max-width", Value: s.Raw}},
		})
	}

	return []utility.Definition{{
		ClassName:  "container",
		Properties: props,
		Layer:      utility.LayerComponents,
		Blocks:     blocks,
	}}, nil
}
