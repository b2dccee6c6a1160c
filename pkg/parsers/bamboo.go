package parsers

import (
	"fmt"

	"github.com/Promptonauts/pipeforge/pkg/errdefs"
	"github.com/Promptonauts/pipeforge/pkg/models"
)

const (
	bambooSlug          = "bamboo"
	defaultPipelineName = "bamboo-pipeline"

	placeholderStepName = "default"
	placeholderTasks    = "echo TODO: add tasks"
	placeholderCommand  = "echo TODO: provide commands"
)

// BambooParser reads Atlassian Bamboo Specs YAML.
//
// It is deliberately forgiving: fields of the wrong shape are replaced by
// placeholders, and only a non-mapping root or a document without any jobs
// is rejected.
type BambooParser struct{}

func NewBambooParser() *BambooParser {
	return &BambooParser{}
}

func (*BambooParser) Slug() string { return bambooSlug }

func (*BambooParser) Description() string { return "Atlassian Bamboo Specs" }

func (p *BambooParser) Parse(raw any, nameOverride string) (*models.Pipeline, error) {
	root, ok := asMapping(raw)
	if !ok {
		return nil, errdefs.InvalidSpec("bamboo: expected a mapping at the root of the spec, got %T", raw)
	}

	entries := extractJobEntries(root)
	if len(entries) == 0 {
		return nil, errdefs.InvalidSpec("bamboo: no jobs found")
	}

	jobs := make([]models.Job, 0, len(entries))
	for i, entry := range entries {
		job, err := parseJob(entry)
		if err != nil {
			return nil, fmt.Errorf("bamboo: jobs[%d]: %w", i, err)
		}
		jobs = append(jobs, job)
	}

	pipeline := &models.Pipeline{
		Name:      resolveName(root, nameOverride),
		Jobs:      jobs,
		Variables: toStringMap(root["variables"]),
		Triggers:  toTextList(root["triggers"]),
	}
	pipeline.EnsureDefaultJobNames()
	return pipeline, nil
}

// resolveName picks the override, then plan.name, then name, then the fallback.
func resolveName(root map[string]any, override string) string {
	if override != "" {
		return override
	}
	var planName any
	if plan, ok := asMapping(root["plan"]); ok {
		planName = plan["name"]
	}
	if name := firstPresent(planName, root["name"]); name != nil {
		return toText(name)
	}
	return defaultPipelineName
}

// extractJobEntries returns the top-level job list, or the jobs collected
// from every stage body when there is none.
func extractJobEntries(root map[string]any) []any {
	if jobs, ok := asList(root["jobs"]); ok && len(jobs) > 0 {
		return jobs
	}

	stages, ok := asList(root["stages"])
	if !ok {
		return nil
	}
	var collected []any
	for _, stage := range stages {
		wrappers, ok := mappingEntries(stage)
		if !ok {
			continue
		}
		for _, wrapper := range wrappers {
			body, ok := asMapping(wrapper.value)
			if !ok {
				continue
			}
			if jobs, ok := asList(body["jobs"]); ok {
				collected = append(collected, jobs...)
			}
		}
	}
	return collected
}

// parseJob accepts a bare job name, a {name: body} wrapper or a full mapping
// carrying its own name field.
func parseJob(entry any) (models.Job, error) {
	if name, ok := entry.(string); ok {
		return models.Job{Name: name, Steps: []models.Step{placeholderStep()}}, nil
	}

	fields, ok := asMapping(entry)
	if !ok {
		return models.Job{}, errdefs.InvalidSpec("unsupported job entry format: %v", plain(entry))
	}

	var (
		name string
		body map[string]any
	)
	if _, named := fields["name"]; len(fields) == 1 && !named {
		for key, value := range fields {
			name = key
			if value == nil {
				body = map[string]any{}
				break
			}
			if body, ok = asMapping(value); !ok {
				return models.Job{}, errdefs.InvalidSpec("expected mapping for job %q details, got %v", key, plain(value))
			}
		}
	} else {
		if n := firstPresent(fields["name"]); n != nil {
			name = toText(n)
		}
		body = fields
	}

	tasks := normalizeTasks(firstPresent(body["tasks"], body["steps"]))
	steps := make([]models.Step, 0, len(tasks))
	for i, task := range tasks {
		steps = append(steps, convertTask(task, i+1))
	}
	if len(steps) == 0 {
		steps = append(steps, placeholderStep())
	}

	return models.Job{
		Name:  name,
		Steps: steps,
		Image: resolveImage(body),
		Env:   toStringMap(body["variables"]),
	}, nil
}

// resolveImage prefers docker.image (or a bare docker string) over image.
func resolveImage(body map[string]any) string {
	var dockerImage any
	switch docker := body["docker"].(type) {
	case string:
		dockerImage = docker
	default:
		if block, ok := asMapping(docker); ok {
			dockerImage = block["image"]
		}
	}
	if image := firstPresent(dockerImage, body["image"]); image != nil {
		return toText(image)
	}
	return ""
}

// convertTask maps one task to a step. Unknown shapes become a descriptive
// echo so the job still renders.
func convertTask(task any, index int) models.Step {
	fallbackName := fmt.Sprintf("task-%d", index)

	if command, ok := task.(string); ok {
		return models.Step{Name: fallbackName, Commands: []string{command}}
	}

	fields, ok := asMapping(task)
	if !ok {
		return models.Step{
			Name:     fallbackName,
			Commands: []string{fmt.Sprintf("echo Unsupported task format: %v", plain(task))},
		}
	}

	name := fallbackName
	if described := firstPresent(fields["description"], fields["name"]); described != nil {
		name = toText(described)
	}
	return models.Step{
		Name:     name,
		Commands: normalizeCommands(firstPresent(fields["script"], fields["command"], fields["commands"])),
		Env:      toStringMap(firstPresent(fields["env"], fields["variables"])),
	}
}

func placeholderStep() models.Step {
	return models.Step{Name: placeholderStepName, Commands: []string{placeholderTasks}}
}
