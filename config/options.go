package config

import (
	"strings"

	"github.com/pkg/errors"
)

type MergePolicy int

const (
	MergeNever MergePolicy = iota
	MergeAlways
	MergeSelective
)

// SelectiveMergeResolution is the lowest LOD resolution merged by MergeSelective.
const SelectiveMergeResolution = 1000.0

func (mp MergePolicy) String() string {
	switch mp {
	case MergeNever:
		return "never"
	case MergeAlways:
		return "always"
	case MergeSelective:
		return "selective"
	default:
		return "unknown"
	}
}

func (mp MergePolicy) MarshalText() ([]byte, error) {
	return []byte(mp.String()), nil
}

func (mp *MergePolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "never":
		*mp = MergeNever
	case "always":
		*mp = MergeAlways
	case "selective":
		*mp = MergeSelective
	default:
		return errors.Errorf("unknown merge policy %q", text)
	}
	return nil
}

// ShouldMerge reports whether a LOD with the given resolution gets its points merged.
func (mp MergePolicy) ShouldMerge(resolution float32) bool {
	switch mp {
	case MergeAlways:
		return true
	case MergeSelective:
		return resolution >= SelectiveMergeResolution
	default:
		return false
	}
}

type Options struct {
	Merge         MergePolicy `yaml:"merge"`
	OnlyUserValue bool        `yaml:"only_user_value"`
	Recursive     bool        `yaml:"recursive"`

	// Info writes reports instead of converting, the flags below refine it
	Info     bool `yaml:"info"`
	FullInfo bool `yaml:"full_info"`
	// All reports of a batch go to a single log, truncated when the batch starts
	SingleLog bool `yaml:"single_log"`

	TextureList       bool `yaml:"texture_list"`
	TextureListPerLod bool `yaml:"texture_list_per_lod"`
	SingleTextureList bool `yaml:"single_texture_list"`

	Encoding string `yaml:"encoding,omitempty"`
}

// Report reports whether the batch writes text files instead of converting models.
func (o *Options) Report() bool {
	return o.Info
}

// ParseFlags applies a legacy option group like "-mr" or "-Il".
func (o *Options) ParseFlags(arg string) error {
	if !strings.HasPrefix(arg, "-") || len(arg) < 2 {
		return errors.Errorf("not an option group %q", arg)
	}
	for _, c := range arg[1:] {
		switch c {
		case 'm':
			o.Merge = MergeAlways
		case 'M':
			o.Merge = MergeSelective
		case 'u':
			o.OnlyUserValue = true
		case 'r':
			o.Recursive = true
		case 'i':
			o.Info = true
		case 'I':
			o.Info = true
			o.FullInfo = true
		case 's':
			o.SingleLog = true
		case 't':
			o.Info = true
			o.TextureList = true
		case 'T':
			o.Info = true
			o.TextureList = true
			o.TextureListPerLod = true
		case 'l':
			o.Info = true
			o.SingleLog = true
			o.TextureList = true
			o.SingleTextureList = true
		default:
			return errors.Errorf("unknown option %q in %q", c, arg)
		}
	}
	return nil
}

// IsFlagGroup reports whether arg looks like a legacy option group rather than a path.
func IsFlagGroup(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}
