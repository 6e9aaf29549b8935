package logstore

import (
	"testing"

	"github.com/pders01/chatlog/internal/models"
)

func TestPrepareNilCollaborators(t *testing.T) {
	msgs := []models.Message{testMsg(models.RoleUser, "hi")}

	got := Prepare(msgs, "", "gpt-4", nil, nil, nil)
	if len(got) != 1 || got[0].Content != "hi" {
		t.Errorf("expected messages unchanged, got %+v", got)
	}
}

func TestPrepareRunsEnricherThenReducer(t *testing.T) {
	msgs := []models.Message{testMsg(models.RoleUser, "hi")}

	enrich := func(in []models.Message, workspace string) []models.Message {
		return append([]models.Message{testMsg(models.RoleSystem, "context from "+workspace)}, in...)
	}
	reduce := func(in []models.Message) []models.Message {
		return in[len(in)-1:]
	}

	got := Prepare(msgs, "/workspace", "gpt-4", enrich, reduce, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 message after reduction, got %d", len(got))
	}
	if got[0].Content != "hi" {
		t.Errorf("expected reducer to run on enriched sequence, got %+v", got)
	}
}

func TestPrepareCountsTokens(t *testing.T) {
	msgs := []models.Message{
		testMsg(models.RoleUser, "one"),
		testMsg(models.RoleUser, "two"),
	}

	counted := 0
	count := func(in []models.Message, model string) int {
		counted++
		return len(in)
	}
	reduce := func(in []models.Message) []models.Message {
		return in[:1]
	}

	got := Prepare(msgs, "", "gpt-4", nil, reduce, count)
	if len(got) != 1 {
		t.Errorf("expected 1 message, got %d", len(got))
	}
	if counted != 2 {
		t.Errorf("expected counter to run on both sequences, got %d calls", counted)
	}
}
