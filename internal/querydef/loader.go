package querydef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// LoadMode controls how errors are handled while loading many files.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the definitions loaded from a set of files.
type LoadResult struct {
	Definitions []Definition
	Files       []string // Files read, in load order
}

// Load expands patterns (doublestar globs such as "queries/**/*.cue") and
// loads every matched file in sorted path order.
func Load(mode LoadMode, patterns ...string) (*LoadResult, []error) {
	files, err := Glob(patterns...)
	if err != nil {
		return nil, []error{err}
	}

	result := &LoadResult{Files: files}
	var errs []error
	for _, path := range files {
		defs, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Definitions = append(result.Definitions, defs...)
	}
	return result, errs
}

// Glob expands patterns into a sorted, de-duplicated list of definition
// files. A pattern without glob metacharacters must name an existing file.
func Glob(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, newLoadError(ErrCodeScanError, "bad pattern %q: %v", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, newLoadError(ErrCodeNotFound, "file not found: %s", pattern)
		}
		for _, m := range matches {
			if !isDefinitionFile(m) || seen[m] {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	if len(files) == 0 {
		return nil, newLoadError(ErrCodeNoFiles, "no definition files match %s", strings.Join(patterns, " "))
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads and builds the definitions in one file. The format is
// chosen by extension: .cue, or .yaml / .yml.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newLoadError(ErrCodeNotFound, "file not found: %s", path)
		}
		return nil, newLoadError(ErrCodeLoadFailed, "failed to read %s: %v", path, err)
	}

	defs, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded query definitions", "file", path, "count", len(defs))
	return defs, nil
}

// Parse builds definitions from data, using filename's extension to pick
// the format.
func Parse(data []byte, filename string) ([]Definition, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cue":
		return ParseCUE(data, filename)
	case ".yaml", ".yml":
		return ParseYAML(data, filename)
	default:
		return nil, newLoadError(ErrCodeLoadFailed, "unsupported definition file type: %s", filename)
	}
}

// ParseYAML builds definitions from a YAML document. Unknown fields are
// rejected.
func ParseYAML(data []byte, filename string) ([]Definition, error) {
	var file rawFile
	if err := decodeStrict(data, &file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newLoadError(ErrCodeNoQueries, "%s: no queries defined", filename)
		}
		return nil, newLoadError(ErrCodeLoadFailed, "%s: failed to parse YAML: %v", filename, err)
	}
	return file.build(filename, nil)
}

// ParseCUE evaluates a CUE file and builds its definitions. Errors carry
// CUE source positions where available.
func ParseCUE(data []byte, filename string) ([]Definition, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err, ErrCodeBuildFailed)
	}

	iter, err := value.Fields()
	if err != nil {
		return nil, formatCUEError(err, ErrCodeBuildFailed)
	}
	for iter.Next() {
		switch iter.Label() {
		case "prefixes", "queries":
		default:
			return nil, &LoadError{
				Code:    ErrCodeLoadFailed,
				Message: fmt.Sprintf("unknown field %q", iter.Label()),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	var file rawFile
	if prefixesVal := value.LookupPath(cue.ParsePath("prefixes")); prefixesVal.Exists() {
		if err := decodeCUE(prefixesVal, &file.Prefixes); err != nil {
			return nil, err
		}
	}

	positions := make(map[string]token.Pos)
	queriesVal := value.LookupPath(cue.ParsePath("queries"))
	if queriesVal.Exists() {
		queries, err := queriesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err, ErrCodeBuildFailed)
		}
		file.Queries = make(map[string]*rawQuery)
		for queries.Next() {
			name := queries.Label()
			raw := &rawQuery{}
			if err := decodeCUE(queries.Value(), raw); err != nil {
				return nil, prefixMessage(err, "queries."+name)
			}
			file.Queries[name] = raw
			positions[name] = queries.Value().Pos()
		}
	}

	return file.build(filename, positions)
}

// decodeCUE decodes a concrete CUE value through the strict YAML decoder so
// both formats share field names and scalar typing.
func decodeCUE(v cue.Value, dst any) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return formatCUEError(err, ErrCodeBuildFailed)
	}
	if err := decodeStrict(data, dst); err != nil {
		return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error(), Pos: v.Pos()}
	}
	return nil
}

func decodeStrict(data []byte, dst any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	return decoder.Decode(dst)
}
