// Package loader reads mapping specifications from JSON, YAML and CUE
// files. It is the data source in front of the compiler: the compiler only
// ever sees a *mapping.Specification.
package loader

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/jonathan2951/mapping-specs/internal/mapping"
)

//go:embed schema.cue
var schemaCUE string

// Error code constants shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No mapping files found
	ErrCodeLoadFailed  = "E004" // File could not be read
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeSchema      = "E008" // Mapping does not match the schema
	ErrCodeFormat      = "E009" // Unsupported file extension
	ErrCodeDecode      = "E010" // JSON/YAML decode failed
)

// Format is a mapping file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	default:
		return "", false
	}
}

// LoadError represents an error that occurred while loading a mapping.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Source supplies a mapping specification.
type Source interface {
	Load() (*mapping.Specification, error)
}

// File loads a mapping from a path, choosing the decoder by extension.
type File string

// Load implements Source.
func (f File) Load() (*mapping.Specification, error) {
	return LoadFile(string(f))
}

// Static returns a fixed specification. Useful when the mapping is built in
// code rather than read from disk.
type Static struct {
	Spec *mapping.Specification
}

// Load implements Source.
func (s Static) Load() (*mapping.Specification, error) {
	if s.Spec == nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "no specification provided"}
	}
	return s.Spec, nil
}

// LoadFile reads and decodes the mapping at path.
func LoadFile(path string) (*mapping.Specification, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported mapping file extension %q (want .json, .yaml, .yml or .cue)", filepath.Ext(path))}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("mapping file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading mapping file: %v", err)}
	}

	spec, err := Parse(data, format, path)
	if err != nil {
		return nil, err
	}
	slog.Debug("mapping loaded", "path", path, "format", format,
		"sources", len(spec.Sources), "joins", len(spec.Joins))
	return spec, nil
}

// Parse decodes a mapping. filename is used in error positions only.
func Parse(data []byte, format Format, filename string) (*mapping.Specification, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data, filename)
	case FormatYAML:
		return parseYAML(data, filename)
	case FormatCUE:
		return parseCUE(data, filename)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported format %q", format)}
	}
}

func parseJSON(data []byte, filename string) (*mapping.Specification, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var spec mapping.Specification
	if err := dec.Decode(&spec); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("%s: %v", filename, err)}
	}
	return &spec, nil
}

func parseYAML(data []byte, filename string) (*mapping.Specification, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec mapping.Specification
	if err := dec.Decode(&spec); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("%s: %v", filename, err)}
	}
	return &spec, nil
}

// parseCUE evaluates a CUE mapping and unifies it with the embedded
// #MappingSpecification schema. The mapping may be the whole file or the
// value of a top-level "mapping" field.
func parseCUE(data []byte, filename string) (*mapping.Specification, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building embedded schema: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#MappingSpecification"))

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err, ErrCodeBuildFailed)
	}
	if wrapped := value.LookupPath(cue.ParsePath("mapping")); wrapped.Exists() {
		value = wrapped
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}

	var spec mapping.Specification
	if err := unified.Decode(&spec); err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}
	return &spec, nil
}

// formatCUEError converts a CUE error to a LoadError carrying the position
// of the first error.
func formatCUEError(err error, code string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}

// FindSpecFiles walks dir and returns every mapping file in lexical order.
func FindSpecFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := FormatFromPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
