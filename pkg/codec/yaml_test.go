package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func keys(t *testing.T, v any) []string {
	t.Helper()
	m, ok := v.(*Mapping)
	require.True(t, ok, "decoded %T", v)
	var out []string
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func TestDecodeMapping(t *testing.T) {
	out, err := Decode([]byte("name: demo\njobs:\n  - build\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "jobs"}, keys(t, out))

	m := out.(*Mapping)
	name, _ := m.Get("name")
	assert.Equal(t, "demo", name)
	jobs, _ := m.Get("jobs")
	assert.Equal(t, []any{"build"}, jobs)
}

func TestDecodeKeepsDocumentOrder(t *testing.T) {
	out, err := Decode([]byte("zeta: 1\nalpha:\n  S1: {jobs: [a]}\n  S0: {jobs: [b]}\nmid: true\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys(t, out))

	alpha, _ := out.(*Mapping).Get("alpha")
	assert.Equal(t, []string{"S1", "S0"}, keys(t, alpha))

	zeta, _ := out.(*Mapping).Get("zeta")
	assert.Equal(t, 1, zeta)
	mid, _ := out.(*Mapping).Get("mid")
	assert.Equal(t, true, mid)
}

func TestDecodeAliasesAndMerges(t *testing.T) {
	src := `
base: &base
  image: maven:3
  tasks: [mvn verify]
job:
  <<: *base
  image: gradle:8
copy: *base
`
	out, err := Decode([]byte(src))
	require.NoError(t, err)

	job, _ := out.(*Mapping).Get("job")
	assert.Equal(t, []string{"image", "tasks"}, keys(t, job))
	image, _ := job.(*Mapping).Get("image")
	assert.Equal(t, "gradle:8", image)
	tasks, _ := job.(*Mapping).Get("tasks")
	assert.Equal(t, []any{"mvn verify"}, tasks)

	cp, _ := out.(*Mapping).Get("copy")
	assert.Equal(t, []string{"image", "tasks"}, keys(t, cp))
}

func TestDecodeEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n", "# only a comment\n", "~\n"} {
		out, err := Decode([]byte(in))
		require.NoError(t, err, "%q", in)
		assert.Empty(t, keys(t, out), "%q", in)
	}
}

func TestDecodeScalarRoot(t *testing.T) {
	out, err := Decode([]byte("just text"))
	require.NoError(t, err)
	assert.Equal(t, "just text", out)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("jobs: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codec: decode yaml")
}

func TestEncodeKeepsOrderedKeys(t *testing.T) {
	doc := orderedmap.New[string, any]()
	doc.Set("zeta", 1)
	doc.Set("alpha", []string{"a", "b"})

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, "zeta: 1\nalpha:\n  - a\n  - b\n", string(out))
}
