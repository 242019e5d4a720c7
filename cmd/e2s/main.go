// This tool moves samples in and out of an electribe "e2s sample all" file.
//
//	e2s export -in e2sSample.all -out samples/
//	e2s import -in samples/ -out e2sSample.all
//	e2s info -in e2sSample.all
//
// Imported files must be named "{number}-{category}-{name}.wav" (or .aif),
// which is also how exported samples are named.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/e2s"
)

const usage = `usage: e2s <export|import|info> -in PATH [-out PATH]`

var (
	errUsage   = errors.New("missing or unknown command")
	errMissing = errors.New("missing required flag")
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errUsage) || errors.Is(err, errMissing) {
		fmt.Println(usage)
		fmt.Println(err)
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(out)
	flagIn := fs.String("in", "", "input file or directory")
	flagOut := fs.String("out", "", "output file or directory")
	flagNoLoop := fs.Bool("noloop", false, "export: don't write smpl loop chunks")
	flagNoCue := fs.Bool("nocue", false, "export: don't write cue chunks for slices")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if *flagIn == "" {
		return fmt.Errorf("%w: -in", errMissing)
	}

	switch args[0] {
	case "export":
		if *flagOut == "" {
			return fmt.Errorf("%w: -out", errMissing)
		}

		return exportSamples(*flagIn, *flagOut, !*flagNoLoop, !*flagNoCue, out)
	case "import":
		if *flagOut == "" {
			return fmt.Errorf("%w: -out", errMissing)
		}

		return importSamples(*flagIn, *flagOut, out)
	case "info":
		return printInfo(*flagIn, out)
	default:
		return fmt.Errorf("%w: %q", errUsage, args[0])
	}
}

func readSampleAll(path string) (*e2s.SampleAll, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	all, err := e2s.ReadSampleAll(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s - %w", path, err)
	}

	return all, nil
}

func exportSamples(inPath, outDir string, withLoop, withCue bool, out io.Writer) error {
	all, err := readSampleAll(inPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	for i, s := range all.Samples() {
		desc, err := s.SlotDescriptor()
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		if desc == nil {
			return fmt.Errorf("sample %d has no slot descriptor", i)
		}

		data, err := s.StandaloneBytes(withLoop, withCue)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		outPath := filepath.Join(outDir, e2s.ExportFileName(desc))
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("couldn't write %s %w", outPath, err)
		}

		fmt.Fprintln(out, "exported", outPath)
	}

	return nil
}

// importSamples builds a container from every matching file of dir. The
// first file that can't be imported aborts the whole import.
func importSamples(dir, outPath string, out io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	all := e2s.NewSampleAll()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name, ok := e2s.ParseImportFileName(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		s, err := loadSample(path)
		if err != nil {
			return fmt.Errorf("could not import %s, import aborted: %w", path, err)
		}

		// "001-Kick-.wav" falls back to the file name
		if name.Name == "" {
			name.Name = e2s.NameFromPath(path)
		}

		if err := s.EnsureVendorChunk(name.Name, name.Category, name.Number); err != nil {
			return fmt.Errorf("could not import %s, import aborted: %w", path, err)
		}

		if err := all.Append(s.CleanCopy()); err != nil {
			return fmt.Errorf("could not import %s, import aborted: %w", path, err)
		}

		fmt.Fprintln(out, "imported", path)
	}

	data, err := all.Bytes()
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("couldn't write %s %w", outPath, err)
	}

	fmt.Fprintf(out, "%d samples written to %s\n", all.Len(), outPath)

	return nil
}

func loadSample(path string) (*e2s.Sample, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".aif" || ext == ".aiff" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return e2s.ReadAIFFSample(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return e2s.ReadSample(data)
}

func printInfo(inPath string, out io.Writer) error {
	all, err := readSampleAll(inPath)
	if err != nil {
		return err
	}

	for i, s := range all.Samples() {
		desc, err := s.SlotDescriptor()
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		dur, err := s.Duration()
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		if desc == nil {
			fmt.Fprintf(out, "[%d]\t(no slot descriptor)\t%s\n", i, dur)
			continue
		}

		fmt.Fprintf(out, "[%d]\t%03d %-8s %-16s %6d Hz one-shot:%t slices:%d %s\n",
			i, int(desc.SlotIndex)+1, desc.Category, desc.Name, desc.SamplingFreq,
			desc.OneShot, desc.NumSlices(), dur)
	}

	return nil
}
