package e2s

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// importNamePattern matches "{number}-{category}-{name}.wav".
var importNamePattern = regexp.MustCompile(`([0-9]+)-([^-]+)-(.*)\.(?i:wav|aif|aiff)$`)

var fileNameReplacer = strings.NewReplacer("/", "_", `\`, "_")

// ImportName is what an import file name says about the sample it holds.
type ImportName struct {
	// Number is the 1 based slot number.
	Number   int
	Category string
	Name     string
}

// ParseImportFileName extracts slot number, category and name from a file
// name following the export naming convention.
func ParseImportFileName(path string) (ImportName, bool) {
	m := importNamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return ImportName{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ImportName{}, false
	}

	return ImportName{Number: n, Category: m[2], Name: m[3]}, true
}

// ExportFileName returns the file name a slot is exported to, e.g.
// "001-Kick-MyKick.wav".
func ExportFileName(d *SlotDescriptor) string {
	return fmt.Sprintf("%03d-%s-%s.wav", int(d.SlotIndex)+1, d.Category, fileNameReplacer.Replace(d.Name))
}

// NameFromPath returns the file name of path without its extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
