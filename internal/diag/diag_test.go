package diag

import (
	"testing"
)

func TestFormatShort(t *testing.T) {
	diags := []Diagnostic{
		NewWarning(NbInvalidNotebook, Location{Path: "nb/broken.ipynb"}, "Error parsing notebook at path 'nb/broken.ipynb'.\nMake sure this is a valid notebook."),
		NewWarning(TagInvalid, Location{Path: "nb/a.ipynb", Line: 3}, "bad tag").
			WithNote(Location{Path: "nb/a.ipynb"}, "cell In[2]"),
	}

	expected := "warning NB1001 nb/broken.ipynb Error parsing notebook at path 'nb/broken.ipynb'. Make sure this is a valid notebook.\n" +
		"warning TAG2001 nb/a.ipynb:3 bad tag\n" +
		"  note nb/a.ipynb cell In[2]"

	if got := FormatShort(diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewWarning(TagInvalid, Location{Path: "a"}, "x")) {
		t.Fatal("first Add should succeed")
	}
	if bag.Add(NewWarning(TagInvalid, Location{Path: "b"}, "y")) {
		t.Fatal("second Add should hit the limit")
	}
	if bag.Len() != 1 || !bag.HasWarnings() {
		t.Fatalf("expected one warning, got %+v", bag.Items())
	}

	info := NewBag(0)
	ReportInfo(BagReporter{Bag: info}, RunRetainedDir, Location{Path: "/tmp/x"}, "kept").Emit()
	if info.HasWarnings() {
		t.Fatal("info diagnostics are not warnings")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(TagInvalid, Location{Path: "b.ipynb"}, "t"))
	bag.Add(NewWarning(NbInvalidNotebook, Location{Path: "a.ipynb"}, "n"))
	bag.Add(NewWarning(TagInvalid, Location{Path: "b.ipynb"}, "t"))
	bag.Dedup()
	bag.Sort()

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Primary.Path != "a.ipynb" || items[1].Primary.Path != "b.ipynb" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	ReportWarning(r, TagInvalid, Location{Path: "x.ipynb"}, "same").Emit()
	ReportWarning(r, TagInvalid, Location{Path: "x.ipynb"}, "same").Emit()
	ReportWarning(r, TagInvalid, Location{Path: "y.ipynb"}, "same").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		NbInvalidNotebook: "NB1001",
		TagInvalid:        "TAG2001",
		RunRetainedDir:    "RUN3001",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("Code(%d).ID() = %q, want %q", code, got, want)
		}
	}
}
