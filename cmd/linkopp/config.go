package main

import (
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong configuration loader for YAML files. Keys are flag names,
// with dashes or underscores, optionally nested by command:
//
//	log-level: debug
//	serve:
//	  addr: ":9000"
//	  dataset:
//	    - https://cdn.example.com/opportunities.csv
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var f kong.ResolverFunc = func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		for _, scope := range scopes(parent) {
			if v, ok := lookup(scope, values, flag.Name); ok {
				return v, nil
			}
		}
		return nil, nil
	}
	return f, nil
}

// scopes returns the command path of parent from the innermost command
// outwards, ending with the root scope.
func scopes(parent *kong.Path) [][]string {
	var path []string
	if parent != nil {
		for n := parent.Node(); n != nil && n.Type == kong.CommandNode; n = n.Parent {
			path = append([]string{n.Name}, path...)
		}
	}
	out := make([][]string, 0, len(path)+1)
	for i := len(path); i >= 0; i-- {
		out = append(out, path[:i])
	}
	return out
}

func lookup(scope []string, values map[string]any, name string) (any, bool) {
	m := values
	for _, part := range scope {
		next, ok := m[part].(map[string]any)
		if !ok {
			return nil, false
		}
		m = next
	}
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}
