package sbom

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/1homsi/jarcheck/internal/fixture"
	"github.com/1homsi/jarcheck/internal/sbom"
)

func TestRun(t *testing.T) {
	a, err := fixture.Parse([]byte(`
-- app.jar/com/example/Main.class --
call org.lib.Util.help
-- lib-1.2.jar/org/lib/Util.class --
`))
	if err != nil {
		t.Fatal(err)
	}
	paths, err := a.Materialize(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"com.example.Main", paths["app.jar"], paths["lib-1.2.jar"]}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr.String())
	}

	var bom sbom.BOM
	if err := json.Unmarshal(stdout.Bytes(), &bom); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(bom.Components) != 2 || bom.Components[1].Name != "lib" || bom.Components[1].Version != "1.2" {
		t.Errorf("components = %+v", bom.Components)
	}
	if len(bom.Dependencies) != 2 || len(bom.Dependencies[0].DependsOn) != 1 || bom.Dependencies[0].DependsOn[0] != paths["lib-1.2.jar"] {
		t.Errorf("dependencies = %+v", bom.Dependencies)
	}
}

func TestRunNoArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}
