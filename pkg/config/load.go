package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/macropower/cleave/api"
	"github.com/macropower/cleave/api/v1beta1/enzymesets"
	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/log"
)

// UserFileName is the name of the enzyme file in the user's config directory.
const UserFileName = "enzymes.yaml"

// ProjectFileNames are searched for from the working directory upwards.
var ProjectFileNames = []string{".cleave.yaml", ".cleave.yml"}

var builtin = sync.OnceValues(func() (*enzymesets.EnzymeSet, error) {
	return LoadEnzymeSet(context.Background(), enzymesets.BuiltinYAML())
})

// LoadEnzymeSet validates, decodes and compiles an EnzymeSet document.
func LoadEnzymeSet(ctx context.Context, data []byte, opts ...LoaderOpt) (*enzymesets.EnzymeSet, error) {
	opts = append([]LoaderOpt{WithKinds(enzymesets.ValidKinds...)}, opts...)
	l := NewLoaderFromBytes(data, enzymesets.New, enzymesets.DefaultValidator, opts...)

	return load(ctx, l)
}

// LoadEnzymeSetFile is like [LoadEnzymeSet] but reads the document from path.
func LoadEnzymeSetFile(ctx context.Context, path string, opts ...LoaderOpt) (*enzymesets.EnzymeSet, error) {
	opts = append([]LoaderOpt{WithKinds(enzymesets.ValidKinds...)}, opts...)

	l, err := NewLoaderFromFile(path, enzymesets.New, enzymesets.DefaultValidator, opts...)
	if err != nil {
		return nil, err
	}

	set, err := load(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.WithContext(ctx).DebugContext(ctx, "loaded enzyme set",
		slog.String("path", path),
		slog.Int("enzymes", len(set.Enzymes)),
	)

	return set, nil
}

func load(ctx context.Context, l *Loader[*enzymesets.EnzymeSet]) (*enzymesets.EnzymeSet, error) {
	err := l.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate enzyme set: %w", err)
	}

	set, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("load enzyme set: %w", err)
	}

	err = set.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile enzyme set: %w", err)
	}

	return set, nil
}

// Builtin returns a new registry holding the built-in catalogue.
func Builtin() (*enzyme.Registry, error) {
	set, err := builtin()
	if err != nil {
		return nil, fmt.Errorf("load built-in enzymes: %w", err)
	}

	return enzyme.NewRegistry(set.Enzymes...) //nolint:wrapcheck // Return the original error.
}

// LoadRegistry returns the built-in catalogue overlaid with the enzymes
// defined in each of paths, in order. An enzyme sharing a name or alias
// with an earlier one replaces it.
func LoadRegistry(ctx context.Context, paths []string, opts ...LoaderOpt) (*enzyme.Registry, error) {
	reg, err := Builtin()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		set, err := LoadEnzymeSetFile(ctx, path, opts...)
		if err != nil {
			return nil, err
		}

		for _, e := range set.Enzymes {
			reg.Replace(e)
		}
	}

	return reg, nil
}

// DiscoverPaths returns the enzyme files that apply in dir: the user file,
// if it exists, followed by the nearest project file.
func DiscoverPaths(dir string) ([]string, error) {
	var paths []string

	userPath := api.GetConfigPath(UserFileName)

	_, err := os.Stat(userPath)
	if err == nil {
		paths = append(paths, userPath)
	}

	projectPath, err := api.FindConfigFile(dir, ProjectFileNames)
	if err != nil {
		return nil, fmt.Errorf("find project enzyme file: %w", err)
	}

	if projectPath != "" && filepath.Clean(projectPath) != filepath.Clean(userPath) {
		paths = append(paths, projectPath)
	}

	return paths, nil
}

// WriteBuiltin writes the built-in catalogue to path so it can be edited.
// Using force backs up and replaces an existing file.
func WriteBuiltin(path string, force bool) error {
	return api.WriteDefaultFile(path, enzymesets.BuiltinYAML(), force, "enzymes") //nolint:wrapcheck // Return the original error.
}
