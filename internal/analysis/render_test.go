package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabstat/internal/table"
)

func TestMarkdown(t *testing.T) {
	rep, err := GenerateStats(fixtureTable(t), StatsOptions{NUnique: true})
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}
	md := rep.Markdown()
	if !strings.Contains(md, "[STATS REPORT]") || !strings.Contains(md, "Rows: 4") {
		t.Fatalf("markdown missing summary: %s", md)
	}
	if !strings.Contains(md, "| column | dtype | rows | count | nan | inf | mean | std | min | 25% | 50% | 75% | max | 1st | 2nd | 3rd | nuniq |") {
		t.Fatalf("markdown header: %s", md)
	}
	if !strings.Contains(md, "| n | integer | 4 | 4 | 0 | 0 | 2.5 | 1.29099 | 1 | 1.75 | 2.5 | 3.25 | 4 | 1 | 2 | 3 | 4 |") {
		t.Fatalf("markdown numeric row: %s", md)
	}
	if !strings.Contains(md, "| label | text | 4 | 3 | 1 |  |  |  |  |  |  |  |  | b | a |  | 2 |") {
		t.Fatalf("markdown text row: %s", md)
	}
	lines := strings.Split(strings.TrimSpace(md), "\n")
	if got := lines[len(lines)-4]; !strings.HasPrefix(got, "| n |") {
		t.Fatalf("rows out of order, first data row = %q", got)
	}
}

func TestJSONUsesNullForUnset(t *testing.T) {
	rep, err := GenerateStats(fixtureTable(t), StatsOptions{})
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}
	b, err := rep.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got struct {
		ID      string           `json:"id"`
		Rows    int              `json:"rows"`
		Columns []map[string]any `json:"columns"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, b)
	}
	if got.ID == "" || got.Rows != 4 || len(got.Columns) != 4 {
		t.Fatalf("header = %+v", got)
	}
	label := got.Columns[1]
	if v, ok := label["mean"]; !ok || v != nil {
		t.Fatalf("label.mean = %v (present %v), want explicit null", v, ok)
	}
	if label["3rd"] != nil {
		t.Fatalf("label.3rd = %v, want null", label["3rd"])
	}
	if _, ok := label["nuniq"]; ok {
		t.Fatalf("nuniq should be omitted when not requested")
	}
	if x := got.Columns[2]; x["max"] != "+Inf" || x["mean"] != "+Inf" {
		t.Fatalf("x max/mean = %v/%v", x["max"], x["mean"])
	}
}

func TestYAML(t *testing.T) {
	rep, err := GenerateStats(fixtureTable(t), StatsOptions{NUnique: true})
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}
	b, err := rep.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var got reportView
	if err := yaml.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Columns) != 4 || got.Columns[0].Column != "n" || got.Columns[0].DType != "integer" {
		t.Fatalf("yaml = %+v", got)
	}
	if got.Columns[1].NUnique == nil || *got.Columns[1].NUnique != 2 {
		t.Fatalf("label nuniq = %v", got.Columns[1].NUnique)
	}
}

func TestTerminalPlain(t *testing.T) {
	rep, err := GenerateStats(fixtureTable(t), StatsOptions{})
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}
	var buf bytes.Buffer
	styles := rep.Styles(NaNStyler(DefaultNaNPerc))
	if err := rep.Terminal(&buf, styles, termenv.WithProfile(termenv.Ascii)); err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("ascii profile should not emit escapes: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want header + 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "column") || !strings.HasPrefix(lines[1], "n ") {
		t.Fatalf("unexpected layout:\n%s", out)
	}
}

func TestTerminalColored(t *testing.T) {
	rep, err := GenerateStats(fixtureTable(t), StatsOptions{})
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}
	var buf bytes.Buffer
	styles := rep.Styles(NaNStyler(DefaultNaNPerc))
	if err := rep.Terminal(&buf, styles, termenv.WithProfile(termenv.TrueColor)); err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected color escapes in true-color output")
	}
}

func TestRenderTruncatesWholeRunes(t *testing.T) {
	long := strings.Repeat("é", 100)
	tab := table.MustNew(table.Texts("word", long, "ü", "b"))
	rep, err := GenerateStats(tab, StatsOptions{})
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}

	md := rep.Markdown()
	if !utf8.ValidString(md) {
		t.Fatalf("markdown is not valid UTF-8: %q", md)
	}
	if !strings.Contains(md, "| "+strings.Repeat("é", 77)+"... |") {
		t.Fatalf("markdown should cut the cell to 77 runes: %s", md)
	}

	var buf bytes.Buffer
	if err := rep.Terminal(&buf, nil, termenv.WithProfile(termenv.Ascii)); err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	out := buf.String()
	if !utf8.ValidString(out) {
		t.Fatalf("terminal output is not valid UTF-8: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("é", 21)+"...") {
		t.Fatalf("terminal should cut the cell to 21 runes:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1", len(lines))
	}
	if a, b := utf8.RuneCountInString(lines[0]), utf8.RuneCountInString(strings.TrimRight(lines[1], " ")); b > a {
		t.Fatalf("data row wider than header: %d > %d\n%s", b, a, out)
	}
	head := []rune(lines[0])
	row := []rune(lines[1])
	first := strings.Index(lines[0], "1st")
	col := utf8.RuneCountInString(lines[0][:first])
	if string(head[col:col+3]) != "1st" || string(row[col:col+3]) != "ééé" {
		t.Fatalf("1st column misaligned:\n%s", out)
	}
}
