package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestHistoryContents(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "what is a sukuk?"},
		{Role: "model", Content: "A sukuk is an Islamic financial certificate."},
	}

	contents := historyContents(history, "how is it structured?")
	if len(contents) != 3 {
		t.Fatalf("len(contents) = %d, want 3", len(contents))
	}

	wantRoles := []genai.Role{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	for i, want := range wantRoles {
		if got := genai.Role(contents[i].Role); got != want {
			t.Errorf("contents[%d].Role = %q, want %q", i, got, want)
		}
	}
	if got := contents[2].Parts[0].Text; got != "how is it structured?" {
		t.Errorf("contents[2] text = %q", got)
	}
}

func TestHistoryContentsNoHistory(t *testing.T) {
	contents := historyContents(nil, "hello")
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}
	if got := genai.Role(contents[0].Role); got != genai.RoleUser {
		t.Errorf("Role = %q, want user", got)
	}
}
