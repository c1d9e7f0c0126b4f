package batch

import (
	"fmt"
	"strings"
	"text/template"
)

// Descriptor carries what the job script needs for one chunk.
type Descriptor struct {
	Dump  string   // output path prefix handed to the converter
	Chunk int      // configured chunk size
	Files []string // input files of this chunk
}

// ScriptOptions selects the environment setup and converter commands
// run inside the simulation directory.
type ScriptOptions struct {
	Setup     string
	Converter string
}

const (
	DefaultSetupScript = "./setup.sh"
	DefaultConverter   = "./jetconverter.py"
)

var scriptTemplate = template.Must(template.New("job").Parse(
	"cd {{.Dir}}\n" +
		"source {{.Setup}}\n" +
		"{{.Converter}} --verbose --dump {{.Dump}} --chunk {{.Chunk}} {{.Files}}"))

type scriptData struct {
	Dir       string
	Setup     string
	Converter string
	Dump      string
	Chunk     int
	Files     string
}

// GenerateScript renders the shell script for one job:
//
//	cd /path/to/jet-simulations
//	source ./setup.sh
//	./jetconverter.py --verbose --dump myfile --chunk 10 file1.root file2.root
func GenerateScript(simDir string, d Descriptor, opts ScriptOptions) (string, error) {
	if opts.Setup == "" {
		opts.Setup = DefaultSetupScript
	}
	if opts.Converter == "" {
		opts.Converter = DefaultConverter
	}

	var b strings.Builder
	err := scriptTemplate.Execute(&b, scriptData{
		Dir:       simDir,
		Setup:     opts.Setup,
		Converter: opts.Converter,
		Dump:      d.Dump,
		Chunk:     d.Chunk,
		Files:     strings.Join(d.Files, " "),
	})
	if err != nil {
		return "", fmt.Errorf("render job script: %w", err)
	}
	return b.String(), nil
}
