package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRendersStatusTemplates(t *testing.T) {
	c := Default()
	got, err := c.Render("status.checkmate", map[string]string{"Winner": "White"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Checkmate! White wins!" {
		t.Fatalf("got %q", got)
	}
	if got := c.Text("advisory.empty_input", nil); got != "Please enter a move" {
		t.Fatalf("advisory = %q", got)
	}
}

func TestRenderMissingKeyFails(t *testing.T) {
	c := Default()
	if _, err := c.Render("status.nope", nil); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if _, err := c.Render("status.to_move", map[string]string{}); err == nil {
		t.Fatal("expected error for missing template field")
	}
	if got := c.Text("status.nope", nil); got != "status.nope" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	body := "advisory:\n  not_your_turn: \"Wait for {{.Side}}\"\n"
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("advisory.not_your_turn", map[string]string{"Side": "Black"})
	if err != nil || got != "Wait for Black" {
		t.Fatalf("got %q, %v", got, err)
	}
	// untouched keys keep embedded defaults
	if got := c.Text("status.draw.stalemate", nil); got == "status.draw.stalemate" {
		t.Fatal("embedded default lost after override")
	}
}

func TestOverrideDirRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	body := "status:\n  setup: \"x\"\n"
	for _, n := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestOverrideDirRejectsBrokenTemplates(t *testing.T) {
	dir := t.TempDir()
	body := "status:\n  to_move: \"{{.Side\"\n"
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected parse error at load")
	}
}
