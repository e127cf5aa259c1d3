package plugin

import (
	"strconv"

	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/utility"
)

type lineClamp struct{}

func (lineClamp) Name() string { return "line-clamp" }

func (lineClamp) ContributeUtilities(*theme.Theme) ([]utility.Definition, error) {
	defs := make([]utility.Definition, 0, 7)
	for n := 1; n <= 6; n++ {
		defs = append(defs, utility.Definition{
			ClassName: "line-clamp-" + strconv.Itoa(n),
			Layer:     utility.LayerUtilities,
			Properties: []utility.Property{
				{Name: "overflow", Value: "hidden"},
				{Name: "display", Value: "-webkit-box"},
				{Name: "-webkit-box-orient", Value: "vertical"},
				{Name: "-webkit-line-clamp", Value: strconv.Itoa(n)},
			},
		})
	}
	defs = append(defs, utility.Definition{
		ClassName: "line-clamp-none",
		Layer:     utility.LayerUtilities,
		Properties: []utility.Property{
			{Name: "overflow", Value: "visible"},
			{Name: "display", Value: "block"},
			{Name: "-webkit-box-orient", Value: "horizontal"},
			{Name: "-webkit-line-clamp", Value: "none"},
		},
	})
	return defs, nil
}
