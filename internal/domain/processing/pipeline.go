package processing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tagline/internal/domain/entities"
)

// PostProcessor is one step in the post processing pipeline. Process must
// never panic; unexpected failures are reported as StatusError results.
type PostProcessor interface {
	// Name identifies the processor in logs and processing notes.
	Name() string

	// Process runs the step against the post, mutating it as needed.
	Process(ctx context.Context, post *entities.Post) Result[*entities.Post]
}

// Pipeline runs post processors in sequence, stopping at the first error.
type Pipeline struct {
	processors []PostProcessor
	logger     *zap.Logger
}

// NewPipeline creates a pipeline over the given processors, run in order.
func NewPipeline(logger *zap.Logger, processors ...PostProcessor) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{processors: processors, logger: logger}
}

// Run processes the post through every step. The first error result stops
// the pipeline and marks the post rejected; otherwise the post is marked
// processed. Processing notes from each step accumulate on the post.
func (p *Pipeline) Run(ctx context.Context, post *entities.Post) Result[*entities.Post] {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID), zap.String("post_id", post.PostID))

	var notes []string
	for _, proc := range p.processors {
		result := proc.Process(ctx, post)
		notes = append(notes, result.Note())

		if result.Status == StatusError {
			logger.Warn("pipeline step failed",
				zap.String("processor", proc.Name()),
				zap.String("reason", result.Reason),
			)
			post.ProcessingStatus = entities.ProcessingStatusRejected
			post.ProcessingNote = joinNotes(notes)
			return Errored(proc.Name(), post, result.Reason)
		}

		logger.Debug("pipeline step passed", zap.String("processor", proc.Name()))
		post = result.Output
	}

	post.ProcessingStatus = entities.ProcessingStatusProcessed
	post.ProcessingNote = joinNotes(notes)
	return Accepted("pipeline", post, map[string]any{"run_id": runID, "steps": len(p.processors)})
}

func joinNotes(notes []string) string {
	out := ""
	for i, n := range notes {
		if i > 0 {
			out += "; "
		}
		out += n
	}
	return out
}
