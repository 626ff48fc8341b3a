package wiring_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/app"
	"go.trai.ch/retest/internal/core/domain"
	_ "go.trai.ch/retest/internal/wiring"
)

// TestGraftDependencies ensures that the dependency injection graph is valid
// at compile/test time. It checks that every node declaring a dependency
// actually uses it, and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers the dependency ID from the package name of the
	// type used in Dep[T]. Since we use `ports.Logger`, `ports.Metrics`, etc., it
	// expects a dependency named "ports", which does not fit nodes that implement
	// interfaces from the shared `ports` package.
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

func TestComponentsResolve(t *testing.T) {
	root := t.TempDir()
	config := "version: \"1\"\nrunner:\n  maxWorkers: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.ConfigFileName), []byte(config), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	t.Chdir(filepath.Join(root, "src"))

	components, _, err := graft.ExecuteFor[*app.Components](t.Context(), graft.DisableCache())
	require.NoError(t, err)

	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
	require.NotNil(t, components.ConfigLoader)

	cfg := components.App.Config()
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(cfg.Root)
	require.NoError(t, err)
	assert.Equal(t, resolved, actual)
	assert.Equal(t, 2, cfg.Runner.MaxWorkers)
}
