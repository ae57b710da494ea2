package check

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1homsi/jarcheck/internal/checker"
	"github.com/1homsi/jarcheck/internal/fixture"
)

const classpath = `
-- app.jar/com/example/Main.class --
new com.example.Service
call org.lib.Util.help
-- app.jar/com/example/Service.class --
super com.example.Base
-- app.jar/com/example/Base.class --
-- lib.jar/org/lib/Util.class --
new org.slf4j.Logger
-- classes/org/slf4j/Logger.class --
`

func materialize(t *testing.T) map[string]string {
	t.Helper()
	a, err := fixture.Parse([]byte(classpath))
	if err != nil {
		t.Fatal(err)
	}
	paths, err := a.Materialize(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return paths
}

func TestRun(t *testing.T) {
	paths := materialize(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantText []string
	}{
		{
			name:     "satisfied",
			args:     []string{"com.example.Main", paths["app.jar"], paths["lib.jar"], paths["classes"]},
			wantCode: 0,
			wantText: []string{"true: All dependencies available", "org.slf4j.Logger"},
		},
		{
			name:     "missing",
			args:     []string{"com.example.Main", paths["app.jar"], paths["lib.jar"]},
			wantCode: 1,
			wantText: []string{"false: Missing dependencies", "Missing dependencies (1)", "via com.example.Main → org.lib.Util → org.slf4j.Logger"},
		},
		{
			name:     "entry not found",
			args:     []string{"com.example.Absent", paths["app.jar"]},
			wantCode: 1,
			wantText: []string{"false: Main class not found in provided JARs"},
		},
		{
			name:     "no containers",
			args:     []string{"com.example.Main"},
			wantCode: 1,
			wantText: []string{"Available classes (0)"},
		},
		{
			name:     "brief",
			args:     []string{"--brief", "com.example.Main", paths["app.jar"]},
			wantCode: 1,
			wantText: []string{"Available classes: 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantText {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("Output missing %q\nGot: %s", want, stdout.String())
				}
			}
		})
	}
}

func TestRunWithJSON(t *testing.T) {
	paths := materialize(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--json", "com.example.Main", paths["app.jar"]}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr.String())
	}
	var res checker.Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if res.Reason != checker.ReasonMissing || len(res.Missing) != 1 || res.Missing[0] != "org.lib.Util" {
		t.Errorf("res = %+v", res)
	}
}

func TestRunWithSARIF(t *testing.T) {
	paths := materialize(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--sarif", "com.example.Main", paths["app.jar"]}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"ruleId": "JARCHECK001"`) {
		t.Errorf("SARIF output missing rule id:\n%s", stdout.String())
	}
}

func TestRunWithConfig(t *testing.T) {
	paths := materialize(t)
	cfgPath := filepath.Join(t.TempDir(), "jarcheck.yaml")
	if err := os.WriteFile(cfgPath, []byte("platform:\n  prefixes: [org.slf4j.]\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfgPath, "com.example.Main", paths["app.jar"], paths["lib.jar"]}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("exit code = %d, want 0 with org.slf4j. as platform\n%s", code, stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Errorf("no args: exit code = %d, want 2", code)
	}

	stderr.Reset()
	if code := run([]string{"com.example.Main", "/nonexistent/app.jar"}, &stdout, &stderr); code != 2 {
		t.Errorf("missing jar: exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "open classpath") {
		t.Errorf("stderr = %q", stderr.String())
	}

	notZip := filepath.Join(t.TempDir(), "broken.jar")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0600); err != nil {
		t.Fatal(err)
	}
	if code := run([]string{"com.example.Main", notZip}, &stdout, &stderr); code != 2 {
		t.Errorf("corrupt jar: exit code = %d, want 2", code)
	}

	if code := run([]string{"--config", "/nonexistent/jarcheck.yaml", "com.example.Main"}, &stdout, &stderr); code != 2 {
		t.Errorf("missing config: exit code = %d, want 2", code)
	}
}
