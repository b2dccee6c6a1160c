package renderers

import (
	"fmt"
	"strings"

	"github.com/Promptonauts/pipeforge/pkg/models"
)

const (
	defaultWorkflowName = "PipeForge workflow"
	githubRunner        = "ubuntu-latest"
	checkoutAction      = "actions/checkout@v4"
)

// GitHubActionsRenderer emits a workflow file. Environment stays native:
// pipeline variables and job env merge into the job's env, and job env plus
// step env into each step's env.
type GitHubActionsRenderer struct{}

func NewGitHubActionsRenderer() *GitHubActionsRenderer {
	return &GitHubActionsRenderer{}
}

func (*GitHubActionsRenderer) Slug() string        { return "github" }
func (*GitHubActionsRenderer) Description() string { return "GitHub Actions" }
func (*GitHubActionsRenderer) OutputHint() string  { return ".github/workflows/pipeforge.yml" }

func (r *GitHubActionsRenderer) Render(p *models.Pipeline) *Document {
	name := p.Name
	if name == "" {
		name = defaultWorkflowName
	}

	jobs := NewDocument()
	for i, job := range p.Jobs {
		jobName := job.Name
		if jobName == "" {
			jobName = fmt.Sprintf("job-%d", i+1)
		}
		// A later job with the same slug replaces the earlier one.
		jobs.Set(Slugify(jobName), r.renderJob(p, job))
	}

	doc := NewDocument()
	doc.Set("name", name)
	doc.Set("on", []string{"push"})
	doc.Set("jobs", jobs)
	return doc
}

func (*GitHubActionsRenderer) renderJob(p *models.Pipeline, job models.Job) *Document {
	jobEnv := mergeEnv(p.Variables, job.Env)

	checkout := NewDocument()
	checkout.Set("name", "Checkout")
	checkout.Set("uses", checkoutAction)
	steps := []any{checkout}

	for _, step := range job.Steps {
		body := NewDocument()
		name := step.Name
		if name == "" {
			name = "Run commands"
		}
		body.Set("name", name)
		run := placeholderScript
		if len(step.Commands) > 0 {
			run = strings.Join(step.Commands, "\n")
		}
		body.Set("run", run)
		if stepEnv := mergeEnv(jobEnv, step.Env); len(stepEnv) > 0 {
			body.Set("env", envDocument(stepEnv))
		}
		steps = append(steps, body)
	}

	body := NewDocument()
	body.Set("runs-on", githubRunner)
	body.Set("steps", steps)
	if len(jobEnv) > 0 {
		body.Set("env", envDocument(jobEnv))
	}
	if job.Image != "" {
		body.Set("container", job.Image)
	}
	return body
}
