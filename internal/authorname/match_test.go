package authorname

import "testing"

func TestKeyMatches(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		remote string
		want   bool
	}{
		{
			name:   "full name match",
			key:    Key{Last: "smith", Initial: "j"},
			remote: "John A. Smith",
			want:   true,
		},
		{
			name:   "name order variance",
			key:    Key{Last: "smith", Initial: "j"},
			remote: "Smith, John",
			want:   true,
		},
		{
			name:   "accented remote name folds",
			key:    Key{Last: "muller", Initial: "h"},
			remote: "Hans Müller",
			want:   true,
		},
		{
			name:   "middle name tolerated",
			key:    Key{Last: "yu", Initial: "t"},
			remote: "Timothy C. Yu",
			want:   true,
		},
		{
			name:   "missing initial matches on last name alone",
			key:    Key{Last: "smith"},
			remote: "Jane Smith",
			want:   true,
		},
		{
			name:   "last name absent",
			key:    Key{Last: "doe", Initial: "j"},
			remote: "John A. Smith",
			want:   false,
		},
		{
			name:   "initial absent from remote",
			key:    Key{Last: "smith", Initial: "q"},
			remote: "John A. Smith",
			want:   false,
		},
		{
			// Known limitation of substring matching: a short last
			// name embedded in a longer surname still matches.
			name:   "permissive substring match on short surname",
			key:    Key{Last: "yu", Initial: "a"},
			remote: "Yujia Alina Chan",
			want:   true,
		},
		{
			name:   "empty key never matches",
			key:    Key{},
			remote: "John Smith",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Matches(tt.remote); got != tt.want {
				t.Errorf("Key%+v.Matches(%q) = %v, want %v", tt.key, tt.remote, got, tt.want)
			}
		})
	}
}

func TestMatchesReflexive(t *testing.T) {
	// The key derived from any well-formed name matches that name.
	inputs := []string{
		"Smith, John A.",
		"Johann Sebastian Bach",
		"Kovačević, Ana",
		"Müller, Hans",
		"Curie",
	}
	for _, in := range inputs {
		n := Parse(in)
		if !n.Key.Matches(in) {
			t.Errorf("key of %q does not match its own source name", in)
		}
	}
}
