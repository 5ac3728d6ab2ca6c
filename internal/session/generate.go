package session

import (
	"context"
	"errors"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
	"github.com/Jaziel8910/weaver-vault/internal/generation"
)

// ErrPresetNotFound rejects generation against a preset id that is not in
// the bundle.
var ErrPresetNotFound = errors.New("session: generation preset not found")

// paramsFor merges a preset with the account's AI settings into request
// params. Preset values win; AI settings fill the gaps.
func paramsFor(b bundle.VaultBundle, preset bundle.GenerationPreset, prompt string) generation.GenerationParams {
	p := generation.GenerationParams{
		Prompt:      prompt,
		Genre:       preset.Genre,
		Tone:        preset.Tone,
		PointOfView: preset.PointOfView,
		Temperature: preset.Temperature,
		ChapterLen:  preset.ChapterLen,
	}
	if p.Temperature == 0 {
		p.Temperature = b.Settings.AI.Temperature
	}
	if p.ChapterLen == "" {
		p.ChapterLen = b.Settings.AI.MaxChapterLen
	}
	return p
}

// GenerateStory runs the hosted generation service against a preset and
// files the result as a new story. The busy flag is NOT held across the
// service call; the commit at the end re-checks both the generation counter
// and the busy flag, so a response that arrives after logout is dropped and
// a response that lands while another mutation holds the busy flag is
// rejected instead of racing its write-back.
func (c *Controller) GenerateStory(ctx context.Context, svc generation.Service, presetID, prompt string) (bundle.Story, error) {
	snap, err := c.Current()
	if err != nil {
		return bundle.Story{}, err
	}

	var preset *bundle.GenerationPreset
	for i := range snap.Bundle.Presets {
		if snap.Bundle.Presets[i].ID == presetID {
			preset = &snap.Bundle.Presets[i]
			break
		}
	}
	if preset == nil {
		return bundle.Story{}, ErrPresetNotFound
	}

	params := paramsFor(snap.Bundle, *preset, prompt)
	retries := snap.Bundle.Settings.Connection.RetryAttempts

	var content generation.StoryContent
	for attempt := 0; ; attempt++ {
		content, err = svc.Generate(ctx, params)
		if err == nil {
			break
		}
		if !generation.IsRetryable(err) || attempt >= retries {
			return bundle.Story{}, err
		}
		if err := ctx.Err(); err != nil {
			return bundle.Story{}, err
		}
	}

	story := bundle.NewStory(content.Title)
	story.Synopsis = content.Synopsis
	story.Genre = params.Genre
	for i, text := range content.Chapters {
		ch := bundle.Chapter{Title: "", Content: text}
		if i < len(content.IllustrationURLs) {
			ch.IllustrationURLs = []string{content.IllustrationURLs[i]}
		}
		story.Chapters = append(story.Chapters, ch)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != snap.Generation || c.state != StateActive {
		return bundle.Story{}, ErrStaleOperation
	}
	// An in-flight mutation snapshotted the bundle before this commit and
	// would overwrite it on write-back, losing the story.
	if c.busy {
		return bundle.Story{}, ErrOperationInFlight
	}
	stories := append([]bundle.Story(nil), c.bun.Stories...)
	c.bun.Stories = append(stories, story)
	return story, nil
}
