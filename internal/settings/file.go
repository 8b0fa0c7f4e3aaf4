package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/kombatant/nvidia-oc/internal/errors"
)

// File is the on-disk configuration: parameter sets keyed by GPU index.
//
//	{"sets": {"0": {"freqOffset": 150, "powerLimit": 300000}}}
type File struct {
	Sets map[uint32]Settings
}

type fileJSON struct {
	Sets map[string]Settings `json:"sets"`
}

// MarshalJSON writes the sets with decimal string keys.
func (f File) MarshalJSON() ([]byte, error) {
	out := fileJSON{Sets: make(map[string]Settings, len(f.Sets))}
	for idx, s := range f.Sets {
		out.Sets[strconv.FormatUint(uint64(idx), 10)] = s
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the sets and rejects keys that are not GPU indices.
func (f *File) UnmarshalJSON(data []byte) error {
	var in fileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Sets == nil {
		return fmt.Errorf("missing \"sets\" object")
	}
	f.Sets = make(map[uint32]Settings, len(in.Sets))
	for key, s := range in.Sets {
		idx, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid GPU index %q", key)
		}
		f.Sets[uint32(idx)] = s
	}
	return nil
}

// Indices returns the GPU indices in ascending order.
func (f File) Indices() []uint32 {
	out := make([]uint32, 0, len(f.Sets))
	for idx := range f.Sets {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate validates every set and names the offending index.
func (f File) Validate() error {
	for _, idx := range f.Indices() {
		if err := f.Sets[idx].Validate(); err != nil {
			return errors.Wrapf(errors.Validation, err, "invalid settings for GPU %d", idx).
				WithOp("settings.File.Validate")
		}
	}
	return nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.Configuration, "invalid configuration file", err).
			WithOp("settings.Parse")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads the configuration at path. A missing file yields an error
// with code NotFound.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.NotFound, err, "configuration file %s not found", path).
				WithOp("settings.Load")
		}
		return nil, errors.Wrapf(errors.Configuration, err, "failed to read %s", path).
			WithOp("settings.Load")
	}
	return Parse(data)
}

// Save writes f to path atomically via a temp file in the same directory.
func Save(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to encode configuration", err).WithOp("settings.Save")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nvidia_oc-*.json")
	if err != nil {
		return errors.Wrapf(errors.Configuration, err, "failed to write %s", path).WithOp("settings.Save")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.Configuration, err, "failed to write %s", path).WithOp("settings.Save")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.Configuration, err, "failed to write %s", path).WithOp("settings.Save")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(errors.Configuration, err, "failed to write %s", path).WithOp("settings.Save")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(errors.Configuration, err, "failed to write %s", path).WithOp("settings.Save")
	}
	return nil
}

// Put stores s for the GPU at index, replacing any previous set.
func (f *File) Put(index uint32, s Settings) {
	if f.Sets == nil {
		f.Sets = make(map[uint32]Settings)
	}
	f.Sets[index] = s
}
