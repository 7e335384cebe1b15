package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Compatible reports whether a daemon built at daemonVersion can serve this
// client. Both must share a major version, and a minor version while the
// major is 0. Development builds are compatible with everything.
func Compatible(daemonVersion string) bool {
	return compatible(Version, daemonVersion)
}

func compatible(clientVersion, daemonVersion string) bool {
	client, err := semver.NewVersion(clientVersion)
	if err != nil {
		return true
	}
	daemon, err := semver.NewVersion(daemonVersion)
	if err != nil {
		return true
	}

	line := fmt.Sprintf("%d.x", client.Major())
	if client.Major() == 0 {
		line = fmt.Sprintf("0.%d.x", client.Minor())
	}
	constraint, err := semver.NewConstraint(line)
	if err != nil {
		return false
	}

	// Pre-release daemons (1.2.0-rc.1) are judged by their release numbers.
	release, err := daemon.SetPrerelease("")
	if err != nil {
		return false
	}
	return constraint.Check(&release)
}
