package session

import (
	"context"
	"errors"
	"testing"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
	"github.com/Jaziel8910/weaver-vault/internal/generation"
	"github.com/Jaziel8910/weaver-vault/internal/identity"
)

type scriptedService struct {
	failures int
	terminal error
	calls    int
	content  generation.StoryContent
}

func (s *scriptedService) Generate(ctx context.Context, params generation.GenerationParams) (generation.StoryContent, error) {
	s.calls++
	if s.terminal != nil {
		return generation.StoryContent{}, s.terminal
	}
	if s.calls <= s.failures {
		return generation.StoryContent{}, generation.Retryable(errors.New("upstream busy"))
	}
	return s.content, nil
}

func onboardWithPreset(t *testing.T) (*Controller, string) {
	t.Helper()
	c := newTestController(t)
	if err := c.Onboard("gen", "long password", "", []bundle.SecurityQuestion{
		{Question: "q", AnswerHash: identity.HashAnswer("a")},
	}); err != nil {
		t.Fatal(err)
	}
	preset := bundle.GenerationPreset{ID: "p1", Name: "noir", Genre: "noir", Temperature: 0.7}
	if err := c.Update(func(b bundle.VaultBundle) (bundle.VaultBundle, error) {
		b.Presets = append(b.Presets, preset)
		return b, nil
	}); err != nil {
		t.Fatal(err)
	}
	return c, preset.ID
}

func TestGenerateStoryFilesResult(t *testing.T) {
	c, presetID := onboardWithPreset(t)
	svc := &scriptedService{content: generation.StoryContent{
		Title:    "Rain on Delancey",
		Synopsis: "a fixer takes one last job",
		Chapters: []string{"chapter one text", "chapter two text"},
	}}

	story, err := c.GenerateStory(context.Background(), svc, presetID, "a noir in the rain")
	if err != nil {
		t.Fatalf("GenerateStory: %v", err)
	}
	if story.Genre != "noir" || len(story.Chapters) != 2 {
		t.Fatalf("story = %+v", story)
	}
	snap, _ := c.Current()
	if len(snap.Bundle.Stories) != 1 {
		t.Fatalf("stories = %d", len(snap.Bundle.Stories))
	}
}

func TestGenerateStoryRetriesTransientFailures(t *testing.T) {
	c, presetID := onboardWithPreset(t)
	// defaults allow 3 retries
	svc := &scriptedService{failures: 2, content: generation.StoryContent{Title: "Eventually"}}

	if _, err := c.GenerateStory(context.Background(), svc, presetID, "p"); err != nil {
		t.Fatalf("retryable failures not retried: %v", err)
	}
	if svc.calls != 3 {
		t.Fatalf("calls = %d", svc.calls)
	}
}

func TestGenerateStoryTerminalFailure(t *testing.T) {
	c, presetID := onboardWithPreset(t)
	terminal := errors.New("content policy")
	svc := &scriptedService{terminal: terminal}

	if _, err := c.GenerateStory(context.Background(), svc, presetID, "p"); !errors.Is(err, terminal) {
		t.Fatalf("err = %v", err)
	}
	if svc.calls != 1 {
		t.Fatal("terminal error was retried")
	}
}

func TestGenerateStoryUnknownPreset(t *testing.T) {
	c, _ := onboardWithPreset(t)
	svc := &scriptedService{}
	if _, err := c.GenerateStory(context.Background(), svc, "nope", "p"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("err = %v", err)
	}
}

type logoutDuringCall struct {
	c       *Controller
	content generation.StoryContent
}

func (s *logoutDuringCall) Generate(ctx context.Context, params generation.GenerationParams) (generation.StoryContent, error) {
	if err := s.c.Logout(); err != nil {
		return generation.StoryContent{}, err
	}
	return s.content, nil
}

func TestGenerateStoryDroppedAfterLogout(t *testing.T) {
	c, presetID := onboardWithPreset(t)
	svc := &logoutDuringCall{c: c, content: generation.StoryContent{Title: "Too Late"}}

	if _, err := c.GenerateStory(context.Background(), svc, presetID, "p"); !errors.Is(err, ErrStaleOperation) {
		t.Fatalf("err = %v, want ErrStaleOperation", err)
	}
	if c.State() != StateLoggedOut {
		t.Fatal("logout lost")
	}
}
