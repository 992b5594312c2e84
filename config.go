package flick

import (
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Options tunes gesture recognition and zoom/pan behavior. Zero values are
// not meaningful; start from DefaultOptions and override fields, or load a
// TOML document with LoadOptions.
type Options struct {
	// MinZoom and MaxZoom bound the zoom level. Every mutation clamps to
	// this range.
	MinZoom float64
	MaxZoom float64

	// FrictionCoefficient is the per-frame momentum decay multiplier.
	FrictionCoefficient float64

	// MinMomentumVelocity terminates momentum once both velocity
	// components fall below it, in pixels per frame.
	MinMomentumVelocity float64

	// DoubleTapZoomLevel is the zoom a double-tap toggles to.
	DoubleTapZoomLevel float64

	// ZoomStep is the multiplier applied by ZoomIn and ZoomOut.
	ZoomStep float64

	// ZoomAnimDuration is the length of the eased zoom transition.
	ZoomAnimDuration time.Duration

	// MoveThreshold is the displacement in pixels below which a contact
	// is still a tap candidate. It also sizes the double-tap distance
	// (2x) and the long-press stillness requirement.
	MoveThreshold float64

	// TapDuration is the maximum press length for a tap.
	TapDuration time.Duration

	// DoubleTapWindow is the maximum gap between two taps that merge
	// into a double-tap.
	DoubleTapWindow time.Duration

	// LongPressDuration is how long a still contact must be held before
	// LongPress fires.
	LongPressDuration time.Duration

	// SwipeDistanceFrac is the fraction of the viewport dimension along
	// the dominant axis that qualifies a movement as a swipe.
	SwipeDistanceFrac float64

	// SwipeVelocity qualifies a movement as a swipe on speed alone, in
	// pixels per millisecond.
	SwipeVelocity float64
}

// DefaultOptions returns the standard media-viewer tuning.
func DefaultOptions() Options {
	return Options{
		MinZoom:             0.5,
		MaxZoom:             5.0,
		FrictionCoefficient: 0.95,
		MinMomentumVelocity: 0.01,
		DoubleTapZoomLevel:  2.5,
		ZoomStep:            1.5,
		ZoomAnimDuration:    300 * time.Millisecond,
		MoveThreshold:       10,
		TapDuration:         300 * time.Millisecond,
		DoubleTapWindow:     300 * time.Millisecond,
		LongPressDuration:   500 * time.Millisecond,
		SwipeDistanceFrac:   0.2,
		SwipeVelocity:       0.3,
	}
}

// optionsFile is the TOML schema for LoadOptions. Every field is optional;
// durations are integer milliseconds. Pointers distinguish "absent" from
// an explicit zero so partial files merge over the defaults.
type optionsFile struct {
	MinZoom             *float64 `toml:"min_zoom"`
	MaxZoom             *float64 `toml:"max_zoom"`
	FrictionCoefficient *float64 `toml:"friction_coefficient"`
	MinMomentumVelocity *float64 `toml:"min_momentum_velocity"`
	DoubleTapZoomLevel  *float64 `toml:"double_tap_zoom_level"`
	ZoomStep            *float64 `toml:"zoom_step"`
	ZoomAnimDurationMS  *int64   `toml:"zoom_anim_duration_ms"`
	MoveThreshold       *float64 `toml:"move_threshold"`
	TapDurationMS       *int64   `toml:"tap_duration_ms"`
	DoubleTapWindowMS   *int64   `toml:"double_tap_window_ms"`
	LongPressDurationMS *int64   `toml:"long_press_duration_ms"`
	SwipeDistanceFrac   *float64 `toml:"swipe_distance_frac"`
	SwipeVelocity       *float64 `toml:"swipe_velocity"`
}

// LoadOptions reads a TOML document and merges it over DefaultOptions, so
// a host config file only needs to name the fields it changes.
func LoadOptions(r io.Reader) (Options, error) {
	var file optionsFile
	if err := toml.NewDecoder(r).Decode(&file); err != nil {
		return Options{}, fmt.Errorf("failed to parse options: %w", err)
	}

	opts := DefaultOptions()
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setDur := func(dst *time.Duration, src *int64) {
		if src != nil {
			*dst = time.Duration(*src) * time.Millisecond
		}
	}
	setFloat(&opts.MinZoom, file.MinZoom)
	setFloat(&opts.MaxZoom, file.MaxZoom)
	setFloat(&opts.FrictionCoefficient, file.FrictionCoefficient)
	setFloat(&opts.MinMomentumVelocity, file.MinMomentumVelocity)
	setFloat(&opts.DoubleTapZoomLevel, file.DoubleTapZoomLevel)
	setFloat(&opts.ZoomStep, file.ZoomStep)
	setDur(&opts.ZoomAnimDuration, file.ZoomAnimDurationMS)
	setFloat(&opts.MoveThreshold, file.MoveThreshold)
	setDur(&opts.TapDuration, file.TapDurationMS)
	setDur(&opts.DoubleTapWindow, file.DoubleTapWindowMS)
	setDur(&opts.LongPressDuration, file.LongPressDurationMS)
	setFloat(&opts.SwipeDistanceFrac, file.SwipeDistanceFrac)
	setFloat(&opts.SwipeVelocity, file.SwipeVelocity)

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate reports the first nonsensical option value, if any.
func (o Options) Validate() error {
	if o.MinZoom <= 0 {
		return fmt.Errorf("min_zoom must be positive, got %v", o.MinZoom)
	}
	if o.MaxZoom < o.MinZoom {
		return fmt.Errorf("max_zoom %v must be >= min_zoom %v", o.MaxZoom, o.MinZoom)
	}
	if o.FrictionCoefficient <= 0 || o.FrictionCoefficient >= 1 {
		return fmt.Errorf("friction_coefficient must be in (0, 1), got %v", o.FrictionCoefficient)
	}
	// Zero or negative would leave momentum decaying forever.
	if o.MinMomentumVelocity <= 0 {
		return fmt.Errorf("min_momentum_velocity must be positive, got %v", o.MinMomentumVelocity)
	}
	if o.MoveThreshold <= 0 {
		return fmt.Errorf("move_threshold must be positive, got %v", o.MoveThreshold)
	}
	if o.ZoomStep <= 1 {
		return fmt.Errorf("zoom_step must be > 1, got %v", o.ZoomStep)
	}
	return nil
}
