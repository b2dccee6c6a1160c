package renderers

import "github.com/Promptonauts/pipeforge/pkg/models"

// BitbucketRenderer emits bitbucket-pipelines.yml: one step per job under
// pipelines.default, in job order.
type BitbucketRenderer struct{}

func NewBitbucketRenderer() *BitbucketRenderer {
	return &BitbucketRenderer{}
}

func (*BitbucketRenderer) Slug() string        { return "bitbucket" }
func (*BitbucketRenderer) Description() string { return "Bitbucket Pipelines" }
func (*BitbucketRenderer) OutputHint() string  { return "bitbucket-pipelines.yml" }

func (*BitbucketRenderer) Render(p *models.Pipeline) *Document {
	steps := make([]any, 0, len(p.Jobs))
	for _, job := range p.Jobs {
		name := job.Name
		if name == "" {
			name = defaultJobSlug
		}
		body := NewDocument()
		body.Set("name", name)
		body.Set("script", flatScript(p, job))
		if job.Image != "" {
			body.Set("image", job.Image)
		}
		step := NewDocument()
		step.Set("step", body)
		steps = append(steps, step)
	}

	pipelines := NewDocument()
	pipelines.Set("default", steps)
	doc := NewDocument()
	doc.Set("pipelines", pipelines)
	return doc
}
