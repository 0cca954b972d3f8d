// Package config encodes and decodes the phase-vocoder's external
// configuration-key naming scheme, `{ps|ts}-pv-<variant>[-t{p|c|h}-{full|limit}]`,
// so downstream tooling can round-trip a rendered file's configuration
// without hand-formatting strings.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Mode selects pitch-shift or time-stretch processing.
type Mode int

const (
	ModePitchShift Mode = iota
	ModeTimeStretch
)

func (m Mode) String() string {
	if m == ModeTimeStretch {
		return "ts"
	}
	return "ps"
}

// Variant selects which phase shifter produced the rendering.
type Variant int

const (
	VariantBase Variant = iota
	VariantLockIdentity
	VariantLockScaled
	VariantLaminar
	VariantLockDynamic
)

// TransientMode mirrors transient.Mode for the config-key grammar's
// single-letter suffix (p/c/h), with an explicit "none" absent from the key.
type TransientMode int

const (
	TransientNone TransientMode = iota
	TransientPercussive
	TransientCompound
	TransientHighFreq
)

func (t TransientMode) letter() (string, bool) {
	switch t {
	case TransientPercussive:
		return "p", true
	case TransientCompound:
		return "c", true
	case TransientHighFreq:
		return "h", true
	default:
		return "", false
	}
}

// ResetType mirrors phase.ResetPolicy for the config-key grammar.
type ResetType int

const (
	ResetNone ResetType = iota
	ResetFullRange
	ResetBandLimited
)

func (r ResetType) word() (string, bool) {
	switch r {
	case ResetFullRange:
		return "full", true
	case ResetBandLimited:
		return "limit", true
	default:
		return "", false
	}
}

// ScaledFactorAuto is the "a" scale-factor token: scale by the track's
// current time-stretch ratio.
const ScaledFactorAuto = "a"

// Key identifies one rendered configuration: the processing mode, the
// phase-shifter variant (plus its variant-specific parameter, if any), and
// the transient-detection/phase-reset pairing applied, if any.
type Key struct {
	Mode    Mode
	Variant Variant

	// ScaleFactor is set only for VariantLockScaled: "1", ScaledFactorAuto
	// ("a", meaning the track's stretch ratio), or a literal token like
	// "23a3" denoting 2/3 + stretch_ratio/3.
	ScaleFactor string
	// DynDenominator is set only for VariantLockDynamic: the exponent n in
	// magnitude_min_factor = 10^-n.
	DynDenominator int

	Transient TransientMode
	Reset     ResetType
}

// ErrInvalidKey is returned by ParseKey when s does not match the
// `{ps|ts}-pv-<variant>[-t{p|c|h}-{full|limit}]` grammar.
var ErrInvalidKey = errors.New("config: invalid key")

// String renders the key using the `{ps|ts}-pv-<variant>[-t{p|c|h}-{full|limit}]`
// grammar.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Mode.String())
	b.WriteString("-pv-")
	b.WriteString(k.variantToken())

	if letter, ok := k.Transient.letter(); ok {
		if word, ok := k.Reset.word(); ok {
			fmt.Fprintf(&b, "-t%s-%s", letter, word)
		}
	}
	return b.String()
}

func (k Key) variantToken() string {
	switch k.Variant {
	case VariantLockIdentity:
		return "lock-id"
	case VariantLockScaled:
		factor := k.ScaleFactor
		if factor == "" {
			factor = "1"
		}
		return "lock-sc-" + factor
	case VariantLaminar:
		return "lam"
	case VariantLockDynamic:
		denom := k.DynDenominator
		if denom == 0 {
			denom = 6
		}
		return fmt.Sprintf("lock-dyn-%d", denom)
	default:
		return "base"
	}
}

// ParseKey decodes s back into a Key, returning ErrInvalidKey if it does
// not match the grammar.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 || parts[1] != "pv" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	var k Key
	switch parts[0] {
	case "ps":
		k.Mode = ModePitchShift
	case "ts":
		k.Mode = ModeTimeStretch
	default:
		return Key{}, fmt.Errorf("%w: unknown mode prefix %q", ErrInvalidKey, parts[0])
	}

	rest := parts[2:]
	rest, variantTok, variantExtra, err := splitVariant(rest)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	k.Variant = variantTok
	switch variantTok {
	case VariantLockScaled:
		k.ScaleFactor = variantExtra
	case VariantLockDynamic:
		n, err := strconv.Atoi(variantExtra)
		if err != nil {
			return Key{}, fmt.Errorf("%w: bad dynamic denominator %q", ErrInvalidKey, variantExtra)
		}
		k.DynDenominator = n
	}

	if len(rest) == 0 {
		return k, nil
	}
	if len(rest) != 2 || !strings.HasPrefix(rest[0], "t") || rest[0] == "t" {
		return Key{}, fmt.Errorf("%w: malformed transient suffix in %q", ErrInvalidKey, s)
	}
	switch rest[0][1:] {
	case "p":
		k.Transient = TransientPercussive
	case "c":
		k.Transient = TransientCompound
	case "h":
		k.Transient = TransientHighFreq
	default:
		return Key{}, fmt.Errorf("%w: unknown transient letter %q", ErrInvalidKey, rest[0])
	}
	switch rest[1] {
	case "full":
		k.Reset = ResetFullRange
	case "limit":
		k.Reset = ResetBandLimited
	default:
		return Key{}, fmt.Errorf("%w: unknown reset word %q", ErrInvalidKey, rest[1])
	}
	return k, nil
}

// splitVariant consumes the variant token (and, for lock-sc/lock-dyn, its
// trailing parameter) from the front of parts, returning the remaining
// parts alongside the decoded Variant and its raw extra token (empty for
// variants with no parameter).
func splitVariant(parts []string) (rest []string, variant Variant, extra string, err error) {
	if len(parts) == 0 {
		return nil, 0, "", errors.New("missing variant")
	}
	switch parts[0] {
	case "base":
		return parts[1:], VariantBase, "", nil
	case "lam":
		return parts[1:], VariantLaminar, "", nil
	case "lock":
		if len(parts) < 2 {
			return nil, 0, "", errors.New("truncated lock variant")
		}
		switch parts[1] {
		case "id":
			return parts[2:], VariantLockIdentity, "", nil
		case "sc":
			if len(parts) < 3 {
				return nil, 0, "", errors.New("lock-sc missing scale factor")
			}
			return parts[3:], VariantLockScaled, parts[2], nil
		case "dyn":
			if len(parts) < 3 {
				return nil, 0, "", errors.New("lock-dyn missing denominator")
			}
			return parts[3:], VariantLockDynamic, parts[2], nil
		default:
			return nil, 0, "", fmt.Errorf("unknown lock variant %q", parts[1])
		}
	default:
		return nil, 0, "", fmt.Errorf("unknown variant token %q", parts[0])
	}
}
