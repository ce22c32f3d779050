package position

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PlatformDir is the platform's folder under the user's Documents.
const PlatformDir = "NinjaTrader 8"

// ErrConfiguration is returned when a tracker cannot be constructed from its
// inputs. It is the only error the tracker surfaces.
var ErrConfiguration = errors.New("configuration error")

// LookupEnv has the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// ResolveBasePath returns <USERPROFILE>/Documents/NinjaTrader 8.
func ResolveBasePath(lookup LookupEnv) (string, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	profile, ok := lookup("USERPROFILE")
	if !ok || strings.TrimSpace(profile) == "" {
		return "", fmt.Errorf("%w: USERPROFILE is not set and no base path was given", ErrConfiguration)
	}
	return filepath.Join(profile, "Documents", PlatformDir), nil
}

// PositionFile is the file the platform rewrites for one account and instrument.
func PositionFile(basePath, account, instrument string) string {
	name := fmt.Sprintf("%s Default_%s_position.txt", instrument, account)
	return filepath.Join(basePath, "outgoing", name)
}
