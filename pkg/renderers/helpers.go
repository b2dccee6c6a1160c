package renderers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Promptonauts/pipeforge/pkg/models"
)

const (
	placeholderScript = "echo TODO: add commands"
	defaultJobSlug    = "job"
)

var nonSlugChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Slugify derives a job identifier: lowercased, whitespace runs collapsed to
// underscores, everything outside [a-zA-Z0-9_] dropped. An empty result
// becomes "job".
func Slugify(value string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(value)), "_")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	if slug == "" {
		return defaultJobSlug
	}
	return slug
}

func sortedEnvKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// exportBlock renders env as shell export statements, sorted by name.
func exportBlock(env map[string]string) []string {
	lines := make([]string, 0, len(env))
	for _, key := range sortedEnvKeys(env) {
		lines = append(lines, fmt.Sprintf(`export %s="%s"`, key, env[key]))
	}
	return lines
}

// flatScript is the single-script form of a job: pipeline exports, job
// exports, then each step's exports followed by its commands.
func flatScript(p *models.Pipeline, job models.Job) []string {
	var script []string
	script = append(script, exportBlock(p.Variables)...)
	script = append(script, exportBlock(job.Env)...)
	for _, step := range job.Steps {
		script = append(script, exportBlock(step.Env)...)
		script = append(script, step.Commands...)
	}
	if len(script) == 0 {
		script = append(script, placeholderScript)
	}
	return script
}

// mergeEnv returns base overlaid with override; override wins per key.
func mergeEnv(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range override {
		merged[key] = value
	}
	return merged
}

// envDocument renders env as an ordered mapping with sorted keys.
func envDocument(env map[string]string) *Document {
	doc := NewDocument()
	for _, key := range sortedEnvKeys(env) {
		doc.Set(key, env[key])
	}
	return doc
}
