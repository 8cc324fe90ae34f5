package dataselect

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/earthscope-oss/dataselect/boundary"
	"github.com/earthscope-oss/dataselect/prune"
	"github.com/earthscope-oss/dataselect/quality"
)

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "bestQuality": {"type": "boolean"},
    "prunedata": {"type": "string", "enum": ["off", "record", "sample"]},
    "timeTol": {"type": "number"},
    "sampRateTol": {"type": "number"},
    "restampQuality": {"type": "string", "maxLength": 1},
    "splitBoundary": {"type": "string", "enum": ["none", "day", "hour", "minute"]},
    "replaceInput": {"type": "boolean"},
    "removeBackups": {"type": "boolean"},
    "outputFile": {"type": "string"},
    "archives": {"type": "array", "items": {"type": "string"}}
  },
  "additionalProperties": false
}`

var compiledConfigSchema *jsonschema.Schema

func init() {
	var err error
	compiledConfigSchema, err = jsonschema.CompileString("dataselect-config.json", configSchema)
	if err != nil {
		panic(err) // the embedded schema is a repo invariant, not user input.
	}
}

// FileConfig is the shape of -config's JSON document. Unset fields leave
// the corresponding Opts field untouched.
type FileConfig struct {
	BestQuality    *bool    `json:"bestQuality,omitempty"`
	PruneData      *string  `json:"prunedata,omitempty"`
	TimeTol        *float64 `json:"timeTol,omitempty"`
	SampRateTol    *float64 `json:"sampRateTol,omitempty"`
	RestampQuality *string  `json:"restampQuality,omitempty"`
	SplitBoundary  *string  `json:"splitBoundary,omitempty"`
	ReplaceInput   *bool    `json:"replaceInput,omitempty"`
	RemoveBackups  *bool    `json:"removeBackups,omitempty"`
	OutputFile     *string  `json:"outputFile,omitempty"`
	Archives       []string `json:"archives,omitempty"`
}

// LoadConfig reads, schema-validates, and parses the JSON config at path.
func LoadConfig(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, errors.Wrapf(err, "dataselect: read config %s", path)
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return FileConfig{}, errors.Wrapf(err, "dataselect: parse config %s", path)
	}
	if err := compiledConfigSchema.Validate(v); err != nil {
		return FileConfig{}, errors.Wrapf(err, "dataselect: config %s failed schema validation", path)
	}

	var cfg FileConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return FileConfig{}, errors.Wrapf(err, "dataselect: decode config %s", path)
	}
	return cfg, nil
}

// ApplyTo overlays fc's set fields onto opts. The caller applies explicit
// command-line flags afterward so they still win over the config file.
func (fc FileConfig) ApplyTo(opts Opts) Opts {
	if fc.BestQuality != nil {
		opts.BestQuality = *fc.BestQuality
	}
	if fc.PruneData != nil {
		opts.PruneMode = parsePruneMode(*fc.PruneData)
	}
	if fc.TimeTol != nil {
		opts.Tolerances.TimeTol = *fc.TimeTol
	}
	if fc.SampRateTol != nil {
		opts.Tolerances.SampRateTol = *fc.SampRateTol
	}
	if fc.RestampQuality != nil && len(*fc.RestampQuality) == 1 {
		opts.RestampQuality = quality.Quality((*fc.RestampQuality)[0])
	}
	if fc.SplitBoundary != nil {
		opts.SplitBoundary = parseBoundaryMode(*fc.SplitBoundary)
	}
	if fc.ReplaceInput != nil {
		opts.ReplaceInput = *fc.ReplaceInput
	}
	if fc.RemoveBackups != nil {
		opts.RemoveBackups = *fc.RemoveBackups
	}
	if fc.OutputFile != nil {
		opts.CombinedOutputPath = *fc.OutputFile
	}
	if fc.Archives != nil {
		opts.ArchiveTemplates = fc.Archives
	}
	return opts
}

func parsePruneMode(s string) prune.Mode {
	switch s {
	case "record":
		return prune.RecordLevel
	case "sample":
		return prune.SampleLevel
	default:
		return prune.Off
	}
}

func parseBoundaryMode(s string) boundary.Mode {
	switch s {
	case "day":
		return boundary.Day
	case "hour":
		return boundary.Hour
	case "minute":
		return boundary.Minute
	default:
		return boundary.None
	}
}
