package transpiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Promptonauts/pipeforge/pkg/errdefs"
	"github.com/Promptonauts/pipeforge/pkg/parsers"
	"github.com/Promptonauts/pipeforge/pkg/renderers"
)

const sampleSpec = `
plan:
  name: Example Plan
variables:
  APP_ENV: dev
jobs:
  - name: build
    tasks:
      - script:
          - echo build
  - test:
      tasks:
        - script:
            - echo t1
        - script: echo t2
`

// decodeOutput reads rendered YAML back into plain maps for inspection.
func decodeOutput(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	return doc
}

func script(t *testing.T, v any) []string {
	t.Helper()
	items, ok := v.([]any)
	require.True(t, ok, "script is %T", v)
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.(string))
	}
	return lines
}

func TestConvertToGitLab(t *testing.T) {
	out, res, err := New(nil, nil).ConvertBytes([]byte(sampleSpec), "bamboo", "gitlab", "")
	require.NoError(t, err)
	assert.Equal(t, "Example Plan", res.Pipeline.Name)

	doc := decodeOutput(t, out)
	assert.Equal(t, map[string]any{"APP_ENV": "dev"}, doc["variables"])
	assert.Equal(t, []any{"build", "test"}, doc["stages"])

	var jobKeys []string
	for key := range doc {
		if key != "stages" && key != "variables" {
			jobKeys = append(jobKeys, key)
		}
	}
	assert.ElementsMatch(t, []string{"build", "test"}, jobKeys)

	build := doc["build"].(map[string]any)
	test := doc["test"].(map[string]any)
	assert.Equal(t, "build", build["stage"])
	assert.Equal(t, "test", test["stage"])

	buildScript := script(t, build["script"])
	testScript := script(t, test["script"])
	assert.Equal(t, `export APP_ENV="dev"`, buildScript[0])
	assert.Equal(t, `export APP_ENV="dev"`, testScript[0])
	assert.Contains(t, buildScript, "echo build")
	assert.Equal(t, []string{`export APP_ENV="dev"`, "echo t1", "echo t2"}, testScript)
}

func TestConvertToGitHub(t *testing.T) {
	out, _, err := New(nil, nil).ConvertBytes([]byte(sampleSpec), "bamboo", "github", "")
	require.NoError(t, err)

	doc := decodeOutput(t, out)
	jobs := doc["jobs"].(map[string]any)
	assert.Len(t, jobs, 2)

	for _, id := range []string{"build", "test"} {
		job := jobs[id].(map[string]any)
		assert.Equal(t, map[string]any{"APP_ENV": "dev"}, job["env"])
		steps := job["steps"].([]any)
		assert.Equal(t, map[string]any{"name": "Checkout", "uses": "actions/checkout@v4"}, steps[0])
	}

	buildSteps := jobs["build"].(map[string]any)["steps"].([]any)
	assert.Equal(t, "echo build", buildSteps[1].(map[string]any)["run"])

	testSteps := jobs["test"].(map[string]any)["steps"].([]any)
	require.Len(t, testSteps, 3)
	assert.Equal(t, "echo t1", testSteps[1].(map[string]any)["run"])
	assert.Equal(t, "echo t2", testSteps[2].(map[string]any)["run"])
}

func TestConvertToBitbucket(t *testing.T) {
	out, _, err := New(nil, nil).ConvertBytes([]byte(sampleSpec), "bamboo", "bitbucket", "Renamed")
	require.NoError(t, err)

	doc := decodeOutput(t, out)
	steps := doc["pipelines"].(map[string]any)["default"].([]any)
	require.Len(t, steps, 2)
	assert.Equal(t, "build", steps[0].(map[string]any)["step"].(map[string]any)["name"])
	assert.True(t, strings.HasPrefix(string(out), "pipelines:\n"))
}

func TestConvertBytesKeepsStageJobOrder(t *testing.T) {
	src := "stages:\n  - S1: {jobs: [a]}\n    S0: {jobs: [b]}\n  - x\n  - S2: {jobs: [c]}\n"
	out, _, err := New(nil, nil).ConvertBytes([]byte(src), "bamboo", "bitbucket", "")
	require.NoError(t, err)

	steps := decodeOutput(t, out)["pipelines"].(map[string]any)["default"].([]any)
	names := make([]any, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.(map[string]any)["step"].(map[string]any)["name"])
	}
	assert.Equal(t, []any{"a", "b", "c"}, names)
}

func TestConvertNameOverride(t *testing.T) {
	raw := map[string]any{"jobs": []any{"deploy"}}
	res, err := New(nil, nil).Convert(raw, "bamboo", "github", "Override")
	require.NoError(t, err)
	name, _ := res.Document.Get("name")
	assert.Equal(t, "Override", name)
}

func TestConvertErrors(t *testing.T) {
	tr := New(nil, nil)
	raw := map[string]any{"jobs": []any{"deploy"}}

	_, err := tr.Convert(raw, "jenkins", "gitlab", "")
	assert.ErrorIs(t, err, errdefs.ErrSourceNotFound)

	_, err = tr.Convert(raw, "bamboo", "travis", "")
	assert.ErrorIs(t, err, errdefs.ErrTargetNotFound)

	_, err = tr.Convert([]any{"not", "a", "mapping"}, "bamboo", "gitlab", "")
	assert.ErrorIs(t, err, errdefs.ErrInvalidSpec)

	// parsing runs before the target is looked up
	_, err = tr.Convert(map[string]any{}, "bamboo", "travis", "")
	assert.ErrorIs(t, err, errdefs.ErrInvalidSpec)
}

func TestConvertBytesDecodeFailure(t *testing.T) {
	out, res, err := New(nil, nil).ConvertBytes([]byte("jobs: [oops"), "bamboo", "gitlab", "")
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Nil(t, res)
	assert.Equal(t, errdefs.Kind(""), errdefs.KindOf(err))
}

func TestConvertBytesEmptyInput(t *testing.T) {
	_, _, err := New(nil, nil).ConvertBytes(nil, "bamboo", "gitlab", "")
	assert.ErrorIs(t, err, errdefs.ErrInvalidSpec)
}

func TestAvailableFormats(t *testing.T) {
	tr := New(parsers.NewDefaultRegistry(), renderers.NewRegistry(renderers.NewGitLabRenderer()))
	assert.Equal(t, []string{"bamboo"}, tr.AvailableSources())
	assert.Equal(t, []string{"gitlab"}, tr.AvailableTargets())

	hint, err := tr.OutputHint("gitlab")
	require.NoError(t, err)
	assert.Equal(t, ".gitlab-ci.yml", hint)

	_, err = tr.OutputHint("github")
	assert.ErrorIs(t, err, errdefs.ErrTargetNotFound)
}
