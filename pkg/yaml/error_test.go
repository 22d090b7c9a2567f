package yaml_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/cleave/pkg/yaml"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  *yaml.Error
		want string
	}{
		"with path": {
			err: yaml.NewError(errors.New("value is required"),
				yaml.WithPath(yaml.NewPathBuilder().Root().Child("enzymes").Index(0).Build()),
			),
			want: "error at $.enzymes[0]: value is required",
		},
		"without path": {
			err:  yaml.NewError(errors.New("value is required")),
			want: "value is required",
		},
		"nil error": {
			err:  &yaml.Error{},
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_AnnotateSource(t *testing.T) {
	t.Parallel()

	source := []byte(`kind: EnzymeSet
enzymes:
  - name: Lys-C
    rules:
      "(K,)": yes
`)

	err := yaml.NewError(errors.New("want boolean"),
		yaml.WithPath(yaml.NewPathBuilder().Root().Child("enzymes").Index(0).Child("name").Build()),
		yaml.WithSource(source),
	)

	msg := err.Error()
	assert.Contains(t, msg, "error at $.enzymes[0].name: want boolean")
	assert.Contains(t, msg, "Lys-C")
}

func TestErrorWrapper(t *testing.T) {
	t.Parallel()

	source := []byte("kind: EnzymeSet\n")
	ew := yaml.NewErrorWrapper(yaml.WithSource(source))

	require.NoError(t, ew.Wrap(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, ew.Wrap(plain))

	wrapped := ew.Wrap(yaml.NewError(plain))

	var yamlErr *yaml.Error
	require.ErrorAs(t, wrapped, &yamlErr)
	assert.Equal(t, source, yamlErr.Source)
	require.ErrorIs(t, wrapped, plain)
}

func TestDecoder_Error(t *testing.T) {
	t.Parallel()

	var v struct {
		Kind string `json:"kind"`
	}

	err := yaml.NewDecoder(bytes.NewReader([]byte("kind: [unclosed\n"))).Decode(&v)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.NotNil(t, yamlErr.Token)
	assert.NotEmpty(t, yamlErr.Error())
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(map[string]any{
		"enzymes": []string{"Trypsin", "Lys-C"},
	})
	require.NoError(t, err)
	assert.Equal(t, "enzymes:\n  - Trypsin\n  - Lys-C\n", string(out))

	var back map[string][]string
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, []string{"Trypsin", "Lys-C"}, back["enzymes"])
}
