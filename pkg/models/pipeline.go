package models

import "fmt"

// Pipeline is the vendor-neutral representation every parser produces and
// every renderer consumes.
type Pipeline struct {
	Name      string            `yaml:"name" json:"name"`
	Jobs      []Job             `yaml:"jobs" json:"jobs"`
	Variables map[string]string `yaml:"variables,omitempty" json:"variables,omitempty"`
	Triggers  []string          `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

// Job is a named group of steps executed together.
type Job struct {
	Name  string            `yaml:"name" json:"name"`
	Steps []Step            `yaml:"steps" json:"steps"`
	Image string            `yaml:"image,omitempty" json:"image,omitempty"`
	Env   map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Step is a single unit of work inside a job.
type Step struct {
	Name     string            `yaml:"name" json:"name"`
	Commands []string          `yaml:"commands" json:"commands"`
	Env      map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// CombinedScript flattens every step's commands, in step order, for targets
// that run a job as a single script block.
func (j Job) CombinedScript() []string {
	var script []string
	for _, step := range j.Steps {
		script = append(script, step.Commands...)
	}
	return script
}

// EnsureDefaultJobNames names blank jobs job-<index>, counting from 1.
// Existing names, duplicates included, are left alone.
func (p *Pipeline) EnsureDefaultJobNames() {
	for i := range p.Jobs {
		if p.Jobs[i].Name == "" {
			p.Jobs[i].Name = fmt.Sprintf("job-%d", i+1)
		}
	}
}
