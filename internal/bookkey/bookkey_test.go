package bookkey

import (
	"testing"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		author     string
		wantTitle  string
		wantAuthor string
	}{
		{
			name:       "lowercases both fields",
			title:      "The Hobbit",
			author:     "J.R.R. Tolkien",
			wantTitle:  "the hobbit",
			wantAuthor: "j.r.r. tolkien",
		},
		{
			name:       "trims surrounding whitespace",
			title:      "  Dune ",
			author:     "\tFrank Herbert\n",
			wantTitle:  "dune",
			wantAuthor: "frank herbert",
		},
		{
			name:       "interior whitespace is preserved",
			title:      "A  Double  Space",
			author:     "Some One",
			wantTitle:  "a  double  space",
			wantAuthor: "some one",
		},
		{
			name:       "empty fields",
			title:      "",
			author:     "   ",
			wantTitle:  "",
			wantAuthor: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := For(tt.title, tt.author)
			if got.Title != tt.wantTitle || got.Author != tt.wantAuthor {
				t.Errorf("For(%q, %q) = %+v, want {%q %q}", tt.title, tt.author, got, tt.wantTitle, tt.wantAuthor)
			}
		})
	}
}

func TestForSymmetry(t *testing.T) {
	a := For("The Hobbit", " J.R.R. Tolkien ")
	b := For("the hobbit", "j.r.r. tolkien")
	if a != b {
		t.Errorf("expected %+v and %+v to be equal", a, b)
	}

	c := For("The Hobbit", "Tolkien")
	if a == c {
		t.Errorf("expected different authors to produce different keys")
	}
}
