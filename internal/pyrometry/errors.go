package pyrometry

import (
	"errors"
	"fmt"

	"github.com/san-kum/liisim/internal/signal"
)

var (
	ErrNoMaterial        = errors.New("pyrometry: no material bound")
	ErrUnknownEmSource   = errors.New("pyrometry: unknown E(m) source")
	ErrEmFunction        = errors.New("pyrometry: E(m) function not usable")
	ErrDrudeParameters   = errors.New("pyrometry: Drude parameters not usable")
	ErrTooFewChannels    = errors.New("pyrometry: not enough channels")
	ErrChannelIndex      = errors.New("pyrometry: channel index out of range")
	ErrSignalCount       = errors.New("pyrometry: channel and signal counts differ")
	ErrNoValidSamples    = errors.New("pyrometry: no valid samples")
	ErrCalibrationFailed = errors.New("pyrometry: calibration failed")
)

// MissingEmError reports a channel without a tabulated E(m) entry.
type MissingEmError struct {
	Channel    int
	Wavelength int
}

func (e *MissingEmError) Error() string {
	return fmt.Sprintf("pyrometry: no tabulated E(m) for channel %d (%d nm)", e.Channel, e.Wavelength)
}

func checkSet(set *signal.Set) error {
	if len(set.Channels) != len(set.Signals) {
		return fmt.Errorf("%w: %d channels, %d signals", ErrSignalCount, len(set.Channels), len(set.Signals))
	}
	return nil
}
