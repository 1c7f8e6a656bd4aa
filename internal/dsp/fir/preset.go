package fir

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	verrors "github.com/valib-go/valib/internal/errors"
)

// presetFile is the on-disk shape of a named equalizer preset (spec.md
// §4.3's Band list, plus the ripple tolerance EqualizerGenerator needs).
type presetFile struct {
	RippleDB float64 `yaml:"ripple_db"`
	Bands    []struct {
		Freq   float64 `yaml:"freq"`
		GainDB float64 `yaml:"gain_db"`
	} `yaml:"bands"`
}

var errPresetNotFound = verrors.New(nil).
	Component("dsp.fir").
	Category(verrors.CategoryNotFound).
	Context("reason", "preset_file_missing").
	Build()

// LoadEqualizerPreset reads a named YAML preset file from dir (conf.Settings'
// PresetsDir) and builds an EqualizerGenerator from it. The file name is
// name with a ".yaml" extension; presets are plain band lists, not Go code,
// so a host can ship new EQ curves without a rebuild.
func LoadEqualizerPreset(dir, name string) (*EqualizerGenerator, error) {
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errPresetNotFound
		}
		return nil, err
	}

	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, verrors.New(err).
			Component("dsp.fir").
			Category(verrors.CategoryValidation).
			Context("preset", name).
			Build()
	}

	bands := make([]Band, len(pf.Bands))
	for i, b := range pf.Bands {
		bands[i] = Band{Freq: b.Freq, GainDB: b.GainDB}
	}
	return NewEqualizerGenerator(pf.RippleDB, bands...), nil
}
