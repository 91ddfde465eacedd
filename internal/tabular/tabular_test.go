package tabular_test

import (
	"reflect"
	"testing"

	"github.com/blackwell-systems/shelfmap/internal/tabular"
)

func TestParse_Basic(t *testing.T) {
	tbl := tabular.Parse("id,title\n1,Dune\n2,Emma\n")
	if want := []string{"id", "title"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, want)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if tbl.Rows[1]["title"] != "Emma" {
		t.Errorf("Rows[1][title] = %q, want %q", tbl.Rows[1]["title"], "Emma")
	}
}

func TestParse_QuotingRules(t *testing.T) {
	text := "a,b,c\r\n\"x, y\",\"say \"\"hi\"\"\",\"line1\nline2\"\r\n"
	tbl := tabular.Parse(text)
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tbl.Rows))
	}
	r := tbl.Rows[0]
	cases := map[string]string{
		"a": "x, y",
		"b": `say "hi"`,
		"c": "line1\nline2",
	}
	for col, want := range cases {
		if r[col] != want {
			t.Errorf("%s = %q, want %q", col, r[col], want)
		}
	}
}

func TestParse_CarriageReturnDropped(t *testing.T) {
	tbl := tabular.Parse("a\r,b\r\n1,\"2\r\"")
	if tbl.Columns[0] != "a" || tbl.Columns[1] != "b" {
		t.Errorf("Columns = %q", tbl.Columns)
	}
	if tbl.Rows[0]["b"] != "2" {
		t.Errorf("b = %q, want %q", tbl.Rows[0]["b"], "2")
	}
}

func TestParse_ShortRowPadded(t *testing.T) {
	tbl := tabular.Parse("a,b,c\n1")
	r := tbl.Rows[0]
	if r["a"] != "1" || r["b"] != "" || r["c"] != "" {
		t.Errorf("row = %v", r)
	}
	if _, ok := r["c"]; !ok {
		t.Error("missing columns should be present with empty values")
	}
}

func TestParse_BOMStripped(t *testing.T) {
	tbl := tabular.Parse("\ufeffid,title\n1,x")
	if tbl.Columns[0] != "id" {
		t.Errorf("Columns[0] = %q, want %q", tbl.Columns[0], "id")
	}
}

func TestParse_Empty(t *testing.T) {
	tbl := tabular.Parse("")
	if len(tbl.Columns) != 0 || len(tbl.Rows) != 0 {
		t.Errorf("expected empty table, got %d columns %d rows", len(tbl.Columns), len(tbl.Rows))
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	tbl := tabular.Parse("id,title\n")
	if len(tbl.Columns) != 2 {
		t.Errorf("expected 2 columns, got %d", len(tbl.Columns))
	}
	if len(tbl.Rows) != 0 {
		t.Errorf("expected 0 rows, got %d", len(tbl.Rows))
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\nlines", "\"two\nlines\""},
		{"semi;colon", "semi;colon"},
	}
	for _, tt := range tests {
		if got := tabular.Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSerialize_NoTrailingNewline(t *testing.T) {
	out := tabular.Serialize([]string{"id", "title"}, []tabular.Record{
		{"id": "1", "title": "Dune"},
	})
	if out != "id,title\n1,Dune" {
		t.Errorf("Serialize = %q", out)
	}
}

func TestRoundTrip(t *testing.T) {
	columns := []string{"id", "title", "notes", "Extra Column"}
	rows := []tabular.Record{
		{"id": "1", "title": "Dune, Messiah", "notes": `He said "no"`, "Extra Column": "kept"},
		{"id": "2", "title": "Multi\nline", "notes": "", "Extra Column": ""},
		{"id": "3", "title": `""`, "notes": ",,,", "Extra Column": "\"\n,"},
	}

	tbl := tabular.Parse(tabular.Serialize(columns, rows))

	if !reflect.DeepEqual(tbl.Columns, columns) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, columns)
	}
	if !reflect.DeepEqual(tbl.Rows, rows) {
		t.Errorf("Rows mismatch:\n got %v\nwant %v", tbl.Rows, rows)
	}
}

func TestTable_AddColumn(t *testing.T) {
	tbl := tabular.Parse("id\n1\n2")
	tbl.AddColumn("Location_Shelf")
	tbl.AddColumn("Location_Shelf")

	if len(tbl.Columns) != 2 {
		t.Fatalf("AddColumn should not duplicate columns: %v", tbl.Columns)
	}
	for i, r := range tbl.Rows {
		if v, ok := r["Location_Shelf"]; !ok || v != "" {
			t.Errorf("row %d Location_Shelf = %q, %v", i, v, ok)
		}
	}
}

func TestRecord_Clone(t *testing.T) {
	r := tabular.Record{"a": "1"}
	c := r.Clone()
	c["a"] = "2"
	if r["a"] != "1" {
		t.Error("Clone shares storage with the original")
	}
}
