package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/cleave/pkg/version"
)

//nolint:paralleltest // Modifies the package-level Version.
func TestGetVersion(t *testing.T) {
	old := version.Version
	t.Cleanup(func() { version.Version = old })

	version.Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", version.GetVersion())

	version.Version = ""
	assert.NotEmpty(t, version.GetVersion())
}
