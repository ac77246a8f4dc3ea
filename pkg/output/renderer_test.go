package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmalherbe/deepdiff/pkg/models"
)

func sampleResult() *models.DiffResult {
	structure := []models.StructureEntry{
		{RelativePath: "added.txt", Presence: models.PresenceRightOnly},
		{RelativePath: "changed.txt", Presence: models.PresenceBoth},
		{RelativePath: "conflict", Presence: models.PresenceBoth, TypeConflict: true},
		{RelativePath: "removed.txt", Presence: models.PresenceLeftOnly},
		{RelativePath: "same.txt", Presence: models.PresenceBoth},
	}
	content := []models.ContentEntry{
		{RelativePath: "changed.txt", Status: models.ContentModified, Reason: "fingerprints differ"},
		{RelativePath: "same.txt", Status: models.ContentIdentical, Reason: "fingerprints match"},
	}
	text := []models.TextDiffEntry{
		{
			RelativePath: "changed.txt",
			Status:       models.TextModified,
			Hunks: []models.Hunk{
				{
					LeftStart: 1, LeftCount: 3, RightStart: 1, RightCount: 3,
					Lines: []models.Line{
						{Origin: models.OriginContext, Text: "line1\n"},
						{Origin: models.OriginRemoved, Text: "line2\n"},
						{Origin: models.OriginAdded, Text: "LINE2\n"},
						{Origin: models.OriginContext, Text: "line3"},
					},
				},
			},
		},
	}

	return &models.DiffResult{
		RunID:     "test-run",
		LeftRoot:  "/tmp/left",
		RightRoot: "/tmp/right",
		Depth:     models.DepthText,
		Structure: structure,
		Content:   content,
		Text:      text,
		Stats:     models.ComputeStats(structure, content, text),
		StartTime: time.Now(),
		Duration:  42 * time.Millisecond,
	}
}

// TestHumanRenderer verifies the listing markers, hunk headers, and
// summary block
func TestHumanRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewHumanRenderer(false)

	if r.Name() != "human" {
		t.Errorf("name = %s, want human", r.Name())
	}
	if err := r.Render(&buf, sampleResult()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"+ added.txt",
		"- removed.txt",
		"~ changed.txt (fingerprints differ)",
		"! conflict (file/directory conflict)",
		"  same.txt",
		"--- a/changed.txt",
		"+++ b/changed.txt",
		"@@ -1,3 +1,3 @@",
		"-line2",
		"+LINE2",
		noNewlineMarker,
		"Paths compared: 5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestHumanRendererStructureDepth verifies the summary omits content
// counters when the content stage never ran
func TestHumanRendererStructureDepth(t *testing.T) {
	result := sampleResult()
	result.Depth = models.DepthStructure
	result.Content = nil
	result.Text = nil
	result.Stats = models.ComputeStats(result.Structure, nil, nil)

	var buf bytes.Buffer
	if err := NewHumanRenderer(false).Render(&buf, result); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(buf.String(), "Modified:") {
		t.Error("structure-depth summary should not show content counters")
	}
}

// TestJSONRenderer verifies the envelope decodes back into the model
func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer()

	if r.Name() != "json" {
		t.Errorf("name = %s, want json", r.Name())
	}
	if err := r.Render(&buf, sampleResult()); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var report struct {
		Generated string            `json:"generated"`
		Result    models.DiffResult `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Generated == "" {
		t.Error("generated timestamp missing")
	}
	if report.Result.RunID != "test-run" {
		t.Errorf("run_id = %s, want test-run", report.Result.RunID)
	}
	if len(report.Result.Structure) != 5 || len(report.Result.Text) != 1 {
		t.Errorf("collections did not round-trip: %d structure, %d text",
			len(report.Result.Structure), len(report.Result.Text))
	}
	if report.Result.Text[0].Hunks[0].Lines[3].Text != "line3" {
		t.Error("line text did not round-trip")
	}
}

// TestWriteReport verifies report files in both formats
func TestWriteReport(t *testing.T) {
	dir, err := os.MkdirTemp("", "deepdiff-output-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	humanPath := filepath.Join(dir, "report.txt")
	if err := WriteReport(sampleResult(), humanPath, "human"); err != nil {
		t.Fatalf("human report failed: %v", err)
	}
	data, _ := os.ReadFile(humanPath)
	if !strings.Contains(string(data), "Summary:") {
		t.Error("human report missing summary")
	}

	jsonPath := filepath.Join(dir, "report.json")
	if err := WriteReport(sampleResult(), jsonPath, "json"); err != nil {
		t.Fatalf("json report failed: %v", err)
	}
	data, _ = os.ReadFile(jsonPath)
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Errorf("json report is not valid JSON: %v", err)
	}
}

// TestNullProgress verifies the no-op reporter is safe to call
func TestNullProgress(t *testing.T) {
	var p NullProgress
	p.StageStart("content", 10)
	p.PathDone("a.txt")
	p.Finish()
}

// TestProgressBar verifies stage transitions do not panic and the bar
// writes to the given writer
func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf)

	p.StageStart("content", 2)
	p.PathDone("a.txt")
	p.PathDone("b.txt")
	p.StageStart("text", 0)
	p.PathDone("ignored")
	p.Finish()
}
