package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/1homsi/jarcheck/internal/checker"
	"github.com/1homsi/jarcheck/internal/closure"
	"github.com/1homsi/jarcheck/internal/fixture"
	"github.com/1homsi/jarcheck/internal/platform"
)

func failing() *checker.Result {
	return &checker.Result{
		Entry:       "a.Main",
		Satisfiable: false,
		Reason:      checker.ReasonMissing,
		Available:   []string{"a.Main", "a.Service"},
		Required:    []string{"a.Service", "b.Missing"},
		Missing:     []string{"b.Missing"},
		MissingPaths: map[string][]string{
			"b.Missing": {"a.Main", "a.Service", "b.Missing"},
		},
		Undecodable: map[string]string{"a.Service": "classfile: offset 0: bad magic"},
	}
}

func passing() *checker.Result {
	return &checker.Result{
		Entry:       "a.Main",
		Satisfiable: true,
		Reason:      checker.ReasonOK,
		Available:   []string{"a.Main"},
		Required:    []string{},
		Missing:     []string{},
	}
}

func TestWriteCheck(t *testing.T) {
	tests := []struct {
		name     string
		result   *checker.Result
		opts     TextOptions
		wantText []string
		notText  []string
	}{
		{
			name:     "passing",
			result:   passing(),
			wantText: []string{"Classpath Check", "true: All dependencies available", "Available classes (1)", "Required classes for a.Main (0)", "(none)"},
			notText:  []string{"Missing dependencies ("},
		},
		{
			name:   "failing",
			result: failing(),
			wantText: []string{
				"false: Missing dependencies",
				"Missing dependencies (1)",
				"b.Missing",
				"via a.Main → a.Service → b.Missing",
				"Undecodable classes (1)",
				"bad magic",
			},
		},
		{
			name:     "brief",
			result:   failing(),
			opts:     TextOptions{Brief: true},
			wantText: []string{"Available classes:", " 2"},
			notText:  []string{"Available classes (2)"},
		},
		{
			name: "entry not found",
			result: &checker.Result{
				Entry:     "a.Nope",
				Reason:    checker.ReasonEntryNotFound,
				Available: []string{"a.Main"},
			},
			wantText: []string{"false: Main class not found in provided JARs"},
			notText:  []string{"Required classes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteCheck(&buf, tt.result, tt.opts)

			output := buf.String()
			for _, want := range tt.wantText {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing %q\nGot: %s", want, output)
				}
			}
			for _, not := range tt.notText {
				if strings.Contains(output, not) {
					t.Errorf("Output should not contain %q\nGot: %s", not, output)
				}
			}
			if strings.Contains(output, "\033[") {
				t.Error("Expected no color codes when writing to a buffer")
			}
		})
	}
}

func TestForceColor(t *testing.T) {
	on := true
	ForceColor = &on
	defer func() { ForceColor = nil }()

	var buf bytes.Buffer
	WriteCheck(&buf, passing(), TextOptions{})
	if !strings.Contains(buf.String(), colorGreen) {
		t.Errorf("Expected green verdict, got: %q", buf.String())
	}
}

func TestHeadline(t *testing.T) {
	undecodable := &checker.Result{Reason: checker.ReasonUndecodable}
	if got := Headline(undecodable); got != "false: Undecodable classes" {
		t.Errorf("Headline() = %q", got)
	}
}

func TestWriteCheckJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCheckJSON(&buf, failing()); err != nil {
		t.Fatalf("WriteCheckJSON() error = %v", err)
	}

	var decoded checker.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to decode JSON: %v", err)
	}
	if decoded.Entry != "a.Main" || decoded.Satisfiable {
		t.Errorf("decoded = %+v", decoded)
	}
	if len(decoded.MissingPaths["b.Missing"]) != 3 {
		t.Errorf("MissingPaths = %v", decoded.MissingPaths)
	}
}

func TestWriteBatch(t *testing.T) {
	var buf bytes.Buffer
	WriteBatch(&buf, []*checker.Result{passing(), failing()})
	output := buf.String()
	for _, want := range []string{"Batch Check", "PASS", "FAIL", "- b.Missing", "1 of 2 entry points not satisfiable"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\nGot: %s", want, output)
		}
	}

	buf.Reset()
	if err := WriteBatchJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteBatchJSON(nil) = %q, want []", buf.String())
	}
}

func TestWriteCheckSARIF(t *testing.T) {
	notFound := &checker.Result{Entry: "a.Nope", Reason: checker.ReasonEntryNotFound}

	var buf bytes.Buffer
	if err := WriteCheckSARIF(&buf, []*checker.Result{failing(), passing(), notFound}, "test"); err != nil {
		t.Fatalf("WriteCheckSARIF() error = %v", err)
	}

	var decoded sarifOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to decode SARIF: %v", err)
	}
	if decoded.Version != "2.1.0" || len(decoded.Runs) != 1 {
		t.Fatalf("decoded = %+v", decoded)
	}
	run := decoded.Runs[0]
	if len(run.AutomationDetails.GUID) != 36 {
		t.Errorf("GUID = %q", run.AutomationDetails.GUID)
	}
	if len(run.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d: %+v", len(run.Results), run.Results)
	}
	missing := run.Results[0]
	if missing.RuleID != ruleMissing || missing.Locations[0].PhysicalLocation.ArtifactLocation.URI != "a/Service.class" {
		t.Errorf("missing result = %+v", missing)
	}
	if run.Results[1].RuleID != ruleUndecodable || run.Results[1].Level != "warning" {
		t.Errorf("undecodable result = %+v", run.Results[1])
	}
	if run.Results[2].RuleID != ruleNotFound {
		t.Errorf("not-found result = %+v", run.Results[2])
	}
}

func TestClasspathDiff(t *testing.T) {
	old := passing()
	cur := failing()
	d := NewClasspathDiff(old, cur, []string{"a.jar", "b.jar"}, []string{"a.jar"})
	if len(d.Broken) != 1 || d.Broken[0] != "b.Missing" || len(d.Fixed) != 0 {
		t.Errorf("diff = %+v", d)
	}

	var buf bytes.Buffer
	WriteClasspathDiff(&buf, d)
	for _, want := range []string{"Classpath Diff", "a.jar:b.jar", "+ b.Missing", "NEW CLASSPATH BREAKS a.Main"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Output missing %q\nGot: %s", want, buf.String())
		}
	}

	reverse := NewClasspathDiff(cur, old, nil, nil)
	if len(reverse.Fixed) != 1 || len(reverse.Broken) != 0 {
		t.Errorf("reverse diff = %+v", reverse)
	}

	buf.Reset()
	WriteClasspathDiff(&buf, NewClasspathDiff(old, old, nil, nil))
	if !strings.Contains(buf.String(), "No dependency changes") {
		t.Errorf("Output = %s", buf.String())
	}

	buf.Reset()
	if err := WriteClasspathDiffJSON(&buf, d); err != nil {
		t.Fatal(err)
	}
	var decoded ClasspathDiff
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.NewReason != checker.ReasonMissing {
		t.Errorf("NewReason = %q", decoded.NewReason)
	}
}

func TestClosureReport(t *testing.T) {
	a, err := fixture.Parse([]byte(`
-- lib.jar/a/Main.class --
new a.Service
-- lib.jar/a/Service.class --
new b.Missing
new a.Broken
-- lib.jar/a/Broken.class --
raw junk
`))
	if err != nil {
		t.Fatal(err)
	}
	c, err := closure.New(a.Store(), platform.Default()).Resolve(context.Background(), "a.Main")
	if err != nil {
		t.Fatal(err)
	}
	r := NewClosureReport(c)
	if r.EntrySource != "lib.jar" || len(r.Classes) != 3 {
		t.Fatalf("report = %+v", r)
	}

	var buf bytes.Buffer
	WriteClosure(&buf, r)
	output := buf.String()
	for _, want := range []string{
		"Dependency Closure",
		"Entry: a.Main",
		"Required: 3",
		"a.Broken  [undecodable:",
		"b.Missing  [unresolved]",
		"a.Service  [lib.jar]",
		"-> a.Broken, b.Missing",
		"via a.Main → a.Service → b.Missing",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\nGot: %s", want, output)
		}
	}

	buf.Reset()
	if err := WriteClosureJSON(&buf, r); err != nil {
		t.Fatal(err)
	}
	var decoded ClosureReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Entry != "a.Main" || len(decoded.Classes) != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}
