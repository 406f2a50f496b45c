package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/tabstat/internal/analysis"
	cfgpkg "github.com/KaramelBytes/tabstat/internal/config"
	"github.com/KaramelBytes/tabstat/internal/table"
)

// runCmd executes the root command with args and returns captured stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	return runCmdWith(t, nil, args...)
}

// runCmdWith is runCmd with c installed as the loaded configuration.
func runCmdWith(t *testing.T, c *cfgpkg.Global, args ...string) string {
	t.Helper()
	// Reset sticky flag values and Changed state across invocations
	for _, c := range []*cobra.Command{statsCmd, dupesCmd, monthDeltaCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Value.Type() != "stringSlice" {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	mdColumns = nil
	cfg = c

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out.String()
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	csv := strings.Join([]string{
		"id,age,age_copy,name,joined",
		"1,30,30,ann,2020-01-15",
		"2,,,bob,1971-03-02",
		"3,41,41,,1969-12-31",
		"4,28,28,dan,",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestStatsWritesMarkdown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	src := writeFixture(t)
	outPath := filepath.Join(t.TempDir(), "reports", "people.md")
	runCmd(t, "stats", src, "--nunique", "-o", outPath)

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	if !strings.Contains(md, "Rows: 4") || !strings.Contains(md, "| nuniq |") {
		t.Fatalf("unexpected report: %s", md)
	}
	if !strings.Contains(md, "| age | integer | 4 | 3 | 1 | 0 |") {
		t.Fatalf("age row missing: %s", md)
	}
	if !strings.Contains(md, "| joined | temporal | 4 | 3 | 1 |  |") {
		t.Fatalf("joined row missing: %s", md)
	}
}

func TestStatsJSONToStdout(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := runCmd(t, "stats", writeFixture(t), "--format", "json")
	var rep struct {
		Rows    int              `json:"rows"`
		Columns []map[string]any `json:"columns"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if rep.Rows != 4 || len(rep.Columns) != 5 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Columns[3]["column"] != "name" || rep.Columns[3]["mean"] != nil {
		t.Fatalf("name row = %v", rep.Columns[3])
	}
}

func TestDupes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := runCmd(t, "dupes", writeFixture(t))
	if strings.TrimSpace(out) != "age = age_copy" {
		t.Fatalf("dupes output = %q", out)
	}
}

func TestMonthDelta(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := runCmd(t, "month-delta", writeFixture(t), "--columns", "joined")
	want := "joined\n600\n14\n-1\nNA\n"
	if out != want {
		t.Fatalf("month-delta output = %q, want %q", out, want)
	}
}

func TestMonthDeltaKeepsMissingRowsAligned(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	src := filepath.Join(t.TempDir(), "joined.csv")
	if err := os.WriteFile(src, []byte("id,joined\n1,2020-01-15\n2,\n3,1971-03-02\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "deltas.csv")
	runCmd(t, "month-delta", src, "--columns", "joined", "-o", outPath)

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := string(b), "joined\n600\nNA\n14\n"; got != want {
		t.Fatalf("month-delta output = %q, want %q", got, want)
	}

	back, err := table.Load(outPath, table.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.NumRows() != 3 {
		t.Fatalf("reloaded rows = %d, want 3", back.NumRows())
	}
	col, _ := back.Column("joined")
	for i, want := range []string{"600", "", "14"} {
		v, err := col.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		if v.String() != want || v.Null != (want == "") {
			t.Fatalf("row %d = %+v, want %q", i, v, want)
		}
	}
}

func TestStatsTerminalHonorsZeroNaNThreshold(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("nan_threshold: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := cfgpkg.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.NaNThreshold != 0 {
		t.Fatalf("nan_threshold = %v, want 0", c.NaNThreshold)
	}

	lines := []string{"id,v"}
	for i := 1; i <= 100; i++ {
		v := "7"
		if i == 50 {
			v = ""
		}
		lines = append(lines, strconv.Itoa(i)+","+v)
	}
	src := filepath.Join(dir, "sparse.csv")
	if err := os.WriteFile(src, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := runCmdWith(t, c, "stats", src, "--format", "terminal")
	if !strings.Contains(out, "v") {
		t.Fatalf("terminal output = %q", out)
	}

	stylers, err := highlightStylers(statsCmd)
	if err != nil {
		t.Fatalf("highlightStylers: %v", err)
	}
	row := analysis.StatsRow{Column: "v", DType: table.Integer, Rows: 100, Count: 99, NaN: 1}
	if got := stylers[0](row); got != analysis.StyleRed {
		t.Fatalf("1 missing of 100 with threshold 0 = %q, want red", got)
	}

	// Without config the default threshold leaves the same row yellow.
	runCmd(t, "stats", src, "--format", "terminal")
	stylers, err = highlightStylers(statsCmd)
	if err != nil {
		t.Fatalf("highlightStylers: %v", err)
	}
	if got := stylers[0](row); got != analysis.StyleYellow {
		t.Fatalf("1 missing of 100 with default threshold = %q, want yellow", got)
	}
}
