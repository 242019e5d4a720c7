package e2s

import "strconv"

// Category is the oscillator category of a sample slot.
type Category uint16

// Oscillator categories known by the device.
const (
	CategoryAnalog Category = iota
	CategoryAudioIn
	CategoryKick
	CategorySnare
	CategoryClap
	CategoryHiHat
	CategoryCymbal
	CategoryHits
	CategoryShots
	CategoryVoice
	CategorySE
	CategoryFX
	CategoryTom
	CategoryPerc
	CategoryPhrase
	CategoryLoop
	CategoryPCM
	CategoryUser

	numCategories = iota
)

var categoryLabels = [numCategories]string{
	CategoryAnalog:  "Analog",
	CategoryAudioIn: "Audio In",
	CategoryKick:    "Kick",
	CategorySnare:   "Snare",
	CategoryClap:    "Clap",
	CategoryHiHat:   "HiHat",
	CategoryCymbal:  "Cymbal",
	CategoryHits:    "Hits",
	CategoryShots:   "Shots",
	CategoryVoice:   "Voice",
	CategorySE:      "SE",
	CategoryFX:      "FX",
	CategoryTom:     "Tom",
	CategoryPerc:    "Perc.",
	CategoryPhrase:  "Phrase",
	CategoryLoop:    "Loop",
	CategoryPCM:     "PCM",
	CategoryUser:    "User",
}

// ParseCategory maps a label to its category. Empty and unknown labels map
// to CategoryUser, ok is false for those.
func ParseCategory(label string) (c Category, ok bool) {
	for i, l := range categoryLabels {
		if l == label {
			return Category(i), true
		}
	}

	return CategoryUser, false
}

// Known reports whether c is part of the category table.
func (c Category) Known() bool {
	return int(c) < len(categoryLabels)
}

// String returns the category label, or Category(n) for codes the table
// doesn't know.
func (c Category) String() string {
	if c.Known() {
		return categoryLabels[c]
	}

	return "Category(" + strconv.Itoa(int(c)) + ")"
}
