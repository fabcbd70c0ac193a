package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/usercache-go/internal/cli/config"
	"github.com/yndnr/usercache-go/internal/telemetry/logger"
	"github.com/yndnr/usercache-go/internal/workload"
)

// runApp runs the CLI with args and returns stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		logger.SetDefault(logger.Discard())
		logger.SetLevel("info")
	})

	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err := app.Run(append([]string{"usercache"}, args...))
	return stdout.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usercache.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "usercache" {
		t.Errorf("Name = %q, want usercache", app.Name)
	}
	if app.Version == "" {
		t.Error("Version should not be empty")
	}

	commands := make(map[string]bool)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = true
	}
	for _, name := range []string{"run", "config", "version"} {
		if !commands[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"config", "output", "log-level", "log-format"} {
		if !flags[name] {
			t.Errorf("missing global flag: %s", name)
		}
	}
}

func TestRun_TableWithDump(t *testing.T) {
	out, err := runApp(t, "run", "--max-delay", "0s", "--dump")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	for _, want := range []string{"run_id", "mismatches", "Final cache contents:", "User-0", "User-42"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "User-43") {
		t.Errorf("output holds a key nobody wrote:\n%s", out)
	}
}

func TestRun_JSON(t *testing.T) {
	out, err := runApp(t, "-o", "json", "run",
		"--max-delay", "0s", "--workers", "2", "--keys", "2", "--hasher", "murmur3", "--dump")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	var res struct {
		Report   workload.Report  `json:"report"`
		Contents []workload.Entry `json:"contents"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.Report.Expected != 4 || res.Report.Size != 4 || res.Report.Mismatches != 0 {
		t.Errorf("report = %+v, want 4 clean entries", res.Report)
	}
	want := []workload.Entry{
		{Key: 0, Value: "User-0"},
		{Key: 1, Value: "User-1"},
		{Key: 10, Value: "User-10"},
		{Key: 11, Value: "User-11"},
	}
	if len(res.Contents) != len(want) {
		t.Fatalf("contents = %v, want %v", res.Contents, want)
	}
	for i := range want {
		if res.Contents[i] != want[i] {
			t.Errorf("contents[%d] = %v, want %v", i, res.Contents[i], want[i])
		}
	}
}

func TestRun_Metrics(t *testing.T) {
	out, err := runApp(t, "run", "--max-delay", "0s", "--capacity", "4", "--hasher", "identity", "--metrics")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	for _, want := range []string{
		`usercache_ops_total{op="put",result="inserted"} 15`,
		`usercache_runs_total 1`,
		`lockmap_entries{map="users"} 15`,
		`lockmap_capacity{map="users"} 32`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	_, err := runApp(t, "run", "--load-factor", "0")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("run error = %v, want ErrInvalid", err)
	}

	_, err = runApp(t, "-o", "xml", "run", "--max-delay", "0s")
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("run error = %v, want unknown format", err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
workload:
  workers: 1
  max_delay: 0s
log:
  level: warn
output:
  format: yaml
`)

	out, err := runApp(t, "--config", path, "run")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "expected: 3") || !strings.Contains(out, "size: 3") {
		t.Errorf("yaml report does not reflect the config file:\n%s", out)
	}
}

func TestConfigShow_Table(t *testing.T) {
	out, err := runApp(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}

	lines := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			lines[fields[0]] = fields[1]
		}
	}
	want := map[string]string{
		"map.capacity":             "16",
		"map.load_factor":          "0.75",
		"map.hasher":               "maphash",
		"workload.workers":         "5",
		"workload.keys_per_worker": "3",
		"workload.key_stride":      "10",
		"workload.max_delay":       "100ms",
		"output.format":            "table",
	}
	for k, v := range want {
		if lines[k] != v {
			t.Errorf("%s = %q, want %q", k, lines[k], v)
		}
	}
}

func TestConfigShow_FlagsOverride(t *testing.T) {
	t.Setenv("USERCACHE_WORKLOAD_WORKERS", "7")

	out, err := runApp(t, "-o", "yaml", "config", "show", "--keys", "4")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "workers: 7") {
		t.Errorf("environment not applied:\n%s", out)
	}
	if !strings.Contains(out, "keys_per_worker: 4") {
		t.Errorf("flag not applied:\n%s", out)
	}
}

func TestConfigValidate(t *testing.T) {
	good := writeConfig(t, "map:\n  capacity: 64\n")
	out, err := runApp(t, "config", "validate", good)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "configuration OK") {
		t.Errorf("output = %q", out)
	}

	bad := writeConfig(t, "map:\n  hasher: crc32\n")
	if _, err := runApp(t, "config", "validate", bad); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("validate(bad) error = %v, want ErrInvalid", err)
	}

	if _, err := runApp(t, "config", "validate"); err == nil {
		t.Error("validate without a file should fail")
	}
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, "-o", "json", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := info["go_version"]; !ok {
		t.Errorf("version output missing go_version: %s", out)
	}
}

func TestHasherOption(t *testing.T) {
	for _, name := range []string{config.HasherMaphash, config.HasherMurmur3, config.HasherIdentity} {
		if _, err := hasherOption(name); err != nil {
			t.Errorf("hasherOption(%q) error = %v", name, err)
		}
	}
	if _, err := hasherOption("crc32"); err == nil {
		t.Error("hasherOption(crc32) should fail")
	}
}
