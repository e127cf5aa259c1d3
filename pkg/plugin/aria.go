package plugin

import (
	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/variant"
)

type aria struct{}

func (aria) Name() string { return "aria" }

func (aria) ContributeVariants(*theme.Theme) []variant.Modifier {
	attrs := []string{"checked", "disabled", "expanded", "selected"}
	mods := make([]variant.Modifier, 0, len(attrs))
	for _, a := range attrs {
		mods = append(mods, variant.Pseudo("aria-"+a, `[aria-`+a+`="true"]`))
	}
	return mods
}
