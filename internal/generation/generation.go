// Package generation defines the boundary to the hosted story-generation
// service. The pipeline behind it (prompt construction, illustration
// rendering) is an external collaborator; from the vault core's perspective
// it is a function call that accepts params, returns content and may fail
// with a retryable error.
package generation

import (
	"context"
	"errors"
)

type GenerationParams struct {
	Prompt      string   `json:"prompt"`
	Genre       string   `json:"genre,omitempty"`
	Tone        string   `json:"tone,omitempty"`
	PointOfView string   `json:"pointOfView,omitempty"`
	Temperature float64  `json:"temperature"`
	ChapterLen  string   `json:"chapterLength,omitempty"`
	UniverseRef string   `json:"universeId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type StoryContent struct {
	Title            string   `json:"title"`
	Synopsis         string   `json:"synopsis,omitempty"`
	Chapters         []string `json:"chapters"`
	IllustrationURLs []string `json:"illustrationUrls,omitempty"`
}

type Service interface {
	Generate(ctx context.Context, params GenerationParams) (StoryContent, error)
}

// RetryableError marks a failure the caller may retry (rate limit, transient
// upstream outage). Anything else is terminal for the request.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return "generation: retryable: " + e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
