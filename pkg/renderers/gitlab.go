package renderers

import (
	"fmt"

	"github.com/Promptonauts/pipeforge/pkg/models"
)

const (
	gitlabFirstStage = "build"
	gitlabLaterStage = "test"
)

// GitLabRenderer emits .gitlab-ci.yml. Jobs are keyed by slug; the first job
// runs in the build stage and every later one in test.
type GitLabRenderer struct{}

func NewGitLabRenderer() *GitLabRenderer {
	return &GitLabRenderer{}
}

func (*GitLabRenderer) Slug() string        { return "gitlab" }
func (*GitLabRenderer) Description() string { return "GitLab CI/CD" }
func (*GitLabRenderer) OutputHint() string  { return ".gitlab-ci.yml" }

func (*GitLabRenderer) Render(p *models.Pipeline) *Document {
	doc := NewDocument()
	if len(p.Variables) > 0 {
		doc.Set("variables", envDocument(p.Variables))
	}

	var stages []string
	seen := map[string]bool{}
	for i, job := range p.Jobs {
		stage := gitlabLaterStage
		if i == 0 {
			stage = gitlabFirstStage
		}
		if !seen[stage] {
			seen[stage] = true
			stages = append(stages, stage)
		}

		name := job.Name
		if name == "" {
			name = fmt.Sprintf("job-%d", i+1)
		}
		body := NewDocument()
		body.Set("stage", stage)
		body.Set("script", flatScript(p, job))
		if job.Image != "" {
			body.Set("image", job.Image)
		}
		// A later job with the same slug replaces the earlier one.
		doc.Set(Slugify(name), body)
	}

	if len(stages) > 0 {
		doc.Set("stages", stages)
	}
	return doc
}
