package common

import (
	"os"
	"path"
)

type CommonFlags struct {
	Profile      string `flag:"profile" help:"kitchen profile name to use"`
	ProfileStore string `flag:"profile-store" help:"path to the kitchen profile store file"`
}

type commonFlagDetection struct {
	home string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// DefaultCommonFlags detects the default profile and profile store.
//
// The profile store lives at ~/.sous-chef/profile, and the profile
// defaults to SC_PROFILE or "default".
func DefaultCommonFlags(opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{
		home: "",
	}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		_home, err := os.UserHomeDir()
		if err != nil {
			_home = ""
		}
		home = _home
	}

	profile := os.Getenv("SC_PROFILE")
	if profile == "" {
		profile = "default"
	}

	return CommonFlags{
		Profile:      profile,
		ProfileStore: path.Join(home, ".sous-chef", "profile"),
	}, nil
}
