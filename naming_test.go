package e2s

import "testing"

func TestParseImportFileName(t *testing.T) {
	tests := []struct {
		path   string
		want   ImportName
		wantOK bool
	}{
		{"001-Kick-MyKick.wav", ImportName{1, "Kick", "MyKick"}, true},
		{"samples/042-Snare-Tight snare.WAV", ImportName{42, "Snare", "Tight snare"}, true},
		{"7-Loop-a-b-c.aif", ImportName{7, "Loop", "a-b-c"}, true},
		{"001-User-my-kick.wav", ImportName{1, "User", "my-kick"}, true},
		{"500-Voice-hey.aiff", ImportName{500, "Voice", "hey"}, true},
		{"003-Kick-.wav", ImportName{3, "Kick", ""}, true},
		{"MyKick.wav", ImportName{}, false},
		{"001-Kick-MyKick.mp3", ImportName{}, false},
		{"001-Kick-MyKick.wav.bak", ImportName{}, false},
		{"abc-Kick-MyKick.wav", ImportName{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseImportFileName(tt.path)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("ParseImportFileName(%q) = %+v, %t; want %+v, %t", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExportFileName(t *testing.T) {
	d := NewSlotDescriptor()
	d.SlotIndex = 6
	d.Category = CategoryHiHat
	d.Name = "open/closed"

	if got, want := ExportFileName(d), "007-HiHat-open_closed.wav"; got != want {
		t.Fatalf("ExportFileName() = %q, want %q", got, want)
	}

	// exported names are importable again
	name, ok := ParseImportFileName(ExportFileName(d))
	if !ok || name.Number != 7 || name.Category != "HiHat" {
		t.Fatalf("exported name doesn't parse back: %+v, %t", name, ok)
	}

	cat, known := ParseCategory(name.Category)
	if !known || cat != d.Category {
		t.Fatalf("category %q doesn't parse back", name.Category)
	}
}

func TestNameFromPath(t *testing.T) {
	if got := NameFromPath("dir/003-Kick-.wav"); got != "003-Kick-" {
		t.Fatalf("NameFromPath() = %q", got)
	}
}
