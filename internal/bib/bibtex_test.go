package bib

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleBib = `
% a comment line
@comment{ignore all of this}

@article{smith2020,
  title   = {A Study of {Things}},
  author  = {Smith, John A. and Doe, Jane},
  journal = {Journal of Examples},
  doi     = {10.1000/XYZ.123},
  year    = 2020
}

@inproceedings{kovacevic2021,
  title  = "Folding Names",
  author = "Kova{\v{c}}evi{\'c}, Ana",
  url    = {https://doi.org/10.5555/abc-def},
  year   = {2021}
}

@book{noauthors2019,
  title = {An Orphan Work},
  year  = {2019}
}

@misc{plain2022,
  title  = {No Identifier Here},
  author = {Curie, Marie},
  note   = {preprint}
}
`

func TestParse(t *testing.T) {
	records, err := Parse(sampleBib)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// noauthors2019 has no author field and must be skipped.
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.ID != "smith2020" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Title != "A Study of Things" {
		t.Errorf("Title = %q, want brace-stripped title", first.Title)
	}
	if first.DOI != "10.1000/xyz.123" {
		t.Errorf("DOI = %q, want lower-cased explicit doi field", first.DOI)
	}
	if first.RawAuthors != "Smith, John A. and Doe, Jane" {
		t.Errorf("RawAuthors = %q", first.RawAuthors)
	}

	second := records[1]
	if second.ID != "kovacevic2021" {
		t.Errorf("ID = %q", second.ID)
	}
	// No doi field, but the url field contains one.
	if second.DOI != "10.5555/abc-def" {
		t.Errorf("DOI = %q, want regex-extracted from url field", second.DOI)
	}

	third := records[2]
	if third.DOI != "" {
		t.Errorf("DOI = %q, want empty for identifier-less entry", third.DOI)
	}
}

func TestParseDOITrailingPunctuation(t *testing.T) {
	records, err := Parse(`@article{x,
  author = {Smith, John},
  note   = {see https://doi.org/10.1000/found).,;}
}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].DOI != "10.1000/found" {
		t.Errorf("DOI = %q, want trailing punctuation stripped", records[0].DOI)
	}
}

func TestParseEmptySource(t *testing.T) {
	records, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from empty source", len(records))
	}
}

func TestParseMalformedTrailingEntry(t *testing.T) {
	records, err := Parse(`@article{ok,
  author = {Smith, John},
  title  = {Fine}
}
@article{broken, author = {unterminated`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// The well-formed entry survives; the truncated one is tolerated.
	if len(records) < 1 || records[0].ID != "ok" {
		t.Errorf("records = %+v, want the well-formed entry first", records)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "works.bib")
	if err := os.WriteFile(path, []byte(sampleBib), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3", len(records))
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.bib")); err == nil {
		t.Error("want error for missing file")
	}
}
