// Package plugin provides the built-in plugins a config may enable by name.
// A plugin contributes utilities, variants, or both, through the capability
// interfaces of the utility and variant packages.
package plugin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnana997/twgen/pkg/config"
	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

// Plugin is anything with a name; capabilities are discovered by type
// assertion against utility.Contributor and variant.Contributor.
type Plugin interface {
	Name() string
}

type factory func(opts map[string]any) (Plugin, error)

var builtins = map[string]factory{
	"container":  newContainer,
	"line-clamp": func(map[string]any) (Plugin, error) { return lineClamp{}, nil },
	"aria":       func(map[string]any) (Plugin, error) { return aria{}, nil },
}

// Builtins lists the plugin names Resolve accepts, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UnknownPluginError reports a plugin name with no built-in implementation.
type UnknownPluginError struct {
	Name string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown plugin %q (available: %s)", e.Name, strings.Join(Builtins(), ", "))
}

// Set is the resolved plugin list split by capability, in config order.
type Set struct {
	Plugins   []Plugin
	Utilities []utility.Contributor
	Variants  []variant.Contributor
}

// Resolve instantiates refs in order. Listing a plugin twice is an error.
func Resolve(refs []config.PluginRef) (*Set, error) {
	set := &Set{}
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		name := strings.TrimSpace(ref.Name)
		mk, ok := builtins[name]
		if !ok {
			return nil, &UnknownPluginError{Name: name}
		}
		if seen[name] {
			return nil, fmt.Errorf("plugin %q listed twice", name)
		}
		seen[name] = true

		p, err := mk(ref.Options)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", name, err)
		}
		set.Plugins = append(set.Plugins, p)
		if u, ok := p.(utility.Contributor); ok {
			set.Utilities = append(set.Utilities, u)
		}
		if v, ok := p.(variant.Contributor); ok {
			set.Variants = append(set.Variants, v)
		}
	}
	return set, nil
}

// Names returns the resolved plugin names.
func (s *Set) Names() []string {
	out := make([]string, len(s.Plugins))
	for i, p := range s.Plugins {
		out[i] = p.Name()
	}
	return out
}
