package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeRoleFile(t *testing.T, dir, role, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, role+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write role file: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeRoleFile(t, dir, "engineer", `{
		"role": "Software Engineer",
		"base_questions": ["Tell me about a project you shipped."],
		"competencies": ["system design"],
		"sample_good_answers": ["I led the migration..."],
		"evaluation_criteria": ["depth of reasoning"]
	}`)

	roleContext, err := NewDirLoader(dir).Load(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roleContext == nil {
		t.Fatalf("expected a role context")
	}
	if roleContext.Role != "Software Engineer" {
		t.Fatalf("unexpected role name: %q", roleContext.Role)
	}
	if len(roleContext.BaseQuestions) != 1 || len(roleContext.Competencies) != 1 {
		t.Fatalf("unexpected context: %+v", roleContext)
	}
	if len(roleContext.EvaluationCriteria) != 1 || roleContext.EvaluationCriteria[0] != "depth of reasoning" {
		t.Fatalf("unexpected criteria: %v", roleContext.EvaluationCriteria)
	}
}

func TestLoadMissingRole(t *testing.T) {
	roleContext, err := NewDirLoader(t.TempDir()).Load(context.Background(), "astronaut")
	if err != nil {
		t.Fatalf("expected a missing role to be a nil result, got error %v", err)
	}
	if roleContext != nil {
		t.Fatalf("expected nil context for a missing role, got %+v", roleContext)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeRoleFile(t, dir, "engineer", `{not json`)

	roleContext, err := NewDirLoader(dir).Load(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("expected a malformed file to be a nil result, got error %v", err)
	}
	if roleContext != nil {
		t.Fatalf("expected nil context for a malformed file, got %+v", roleContext)
	}
}

func TestLoadIncompleteFile(t *testing.T) {
	dir := t.TempDir()
	writeRoleFile(t, dir, "engineer", `{"role": "Software Engineer", "base_questions": []}`)

	roleContext, err := NewDirLoader(dir).Load(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("expected an incomplete file to be a nil result, got error %v", err)
	}
	if roleContext != nil {
		t.Fatalf("expected nil context for an incomplete file, got %+v", roleContext)
	}
}

func TestLoadEmptyRole(t *testing.T) {
	roleContext, err := NewDirLoader(t.TempDir()).Load(context.Background(), "")
	if err != nil || roleContext != nil {
		t.Fatalf("expected empty role to be a nil result, got (%+v, %v)", roleContext, err)
	}
}
