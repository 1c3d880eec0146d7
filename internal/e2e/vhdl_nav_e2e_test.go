package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/nav"
)

const pkgSource = `package types_pkg is
  subtype word_t is natural;
end package;
`

const designSource = `entity filter is
  generic (taps : natural := 4);
  port (sample : in word_t; result : out word_t);
end entity;

architecture rtl of filter is
  signal acc : word_t;
begin
  main : process (sample)
  begin
    acc <= sample;
    result <= acc;
  end process;
end architecture;
`

func TestVhdlNavE2E(t *testing.T) {
	repoRoot := findRepoRoot(t)
	navBin := buildNavBinary(t, repoRoot)

	project := t.TempDir()
	writeFixture(t, filepath.Join(project, "types_pkg.vhd"), pkgSource)
	writeFixture(t, filepath.Join(project, "filter.vhd"), designSource)

	// cursor on the "acc <= sample" assignment target inside the process
	t.Run("def", func(t *testing.T) {
		var result nav.DefinitionResult
		runNavJSON(t, navBin, &result, "def", "--json", project, "filter.vhd:11:5")
		if !result.Found || result.Definition == nil {
			t.Fatalf("expected a definition, got %+v", result)
		}
		if result.Definition.Line != 7 || result.Definition.Column != 9 {
			t.Fatalf("definition at %d:%d, want 7:9", result.Definition.Line, result.Definition.Column)
		}
		if filepath.Base(result.Definition.File) != "filter.vhd" {
			t.Fatalf("definition in %s, want filter.vhd", result.Definition.File)
		}
	})

	t.Run("refs", func(t *testing.T) {
		var result nav.ReferencesResult
		runNavJSON(t, navBin, &result, "refs", "--json", project, "filter.vhd:11:5")
		if result.Count != 3 {
			t.Fatalf("expected 3 references, got %d: %+v", result.Count, result.References)
		}
		lines := map[int]bool{}
		for _, ref := range result.References {
			lines[ref.Line] = true
		}
		for _, want := range []int{7, 11, 12} {
			if !lines[want] {
				t.Fatalf("missing reference on line %d: %+v", want, result.References)
			}
		}
	})

	t.Run("symbols", func(t *testing.T) {
		var result nav.SymbolRows
		runNavJSON(t, navBin, &result, "symbols", "--json", project)
		kinds := map[string]string{}
		for _, sym := range result.Symbols {
			kinds[sym.Name] = sym.Kind
		}
		if kinds["filter"] != "entity" || kinds["word_t"] != "subtype" || kinds["acc"] != "signal" {
			t.Fatalf("unexpected symbol kinds: %v", kinds)
		}
	})

	t.Run("def miss exits nonzero", func(t *testing.T) {
		cmd := exec.Command(navBin, "def", project, "filter.vhd:5:0")
		if err := cmd.Run(); err == nil {
			t.Fatal("expected nonzero exit for a cursor on a blank line")
		}
	})
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runNavJSON(t *testing.T, navBin string, out interface{}, args ...string) {
	t.Helper()

	cmd := exec.Command(navBin, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("vhdl-nav %v failed: %v\nstderr:\n%s", args, err, stderr.String())
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		t.Fatalf("parse JSON output for %v: %v\nstdout:\n%s", args, err, stdout.String())
	}
}

func buildNavBinary(t *testing.T, repoRoot string) string {
	t.Helper()
	binDir := t.TempDir()
	binPath := filepath.Join(binDir, "vhdl-nav")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/vhdl-nav")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build vhdl-nav failed: %v\n%s", err, string(out))
	}
	return binPath
}

func findRepoRoot(t *testing.T) string {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("repo root not found from %s", start)
		}
		dir = parent
	}
}
