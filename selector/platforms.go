// Package selector parses and evaluates the bracketed selector syntax
// found in recipe comments (`# [unix and not py<37]`). Selectors gate a
// line on qualities of the target build platform. The parser never
// executes the embedded code; it recognizes the boolean operators and
// the platform qualifiers and treats everything else as an opaque,
// unsatisfied token.
package selector

// OperatingSystem is a broad, sometimes inaccurate, qualifier supported
// by the selector syntax.
type OperatingSystem string

const (
	Linux   OperatingSystem = "linux"
	OSX     OperatingSystem = "osx"
	Unix    OperatingSystem = "unix"
	Windows OperatingSystem = "win"
)

// AllOperatingSystems lists every recognized operating system
// qualifier.
var AllOperatingSystems = []OperatingSystem{Linux, OSX, Unix, Windows}

// Arch names the hardware architecture of the target device.
type Arch string

const (
	Sys390  Arch = "s390x"
	X86     Arch = "x86"
	X8664   Arch = "x86_64"
	Arm64   Arch = "arm64"
	ArmV6L  Arch = "armv6l"
	ArmV7L  Arch = "armv7l"
	PPC64   Arch = "ppc64"
	PPC64LE Arch = "ppc64le"
)

var AllArchitectures = []Arch{Sys390, X86, X8664, Arm64, ArmV6L, ArmV7L, PPC64, PPC64LE}

// Platform is the most specific target qualifier the recipe format
// recognizes, an OS and architecture pair.
type Platform string

const (
	LinuxP32     Platform = "linux-32"
	Linux64      Platform = "linux-64"
	LinuxAarch64 Platform = "linux-aarch64"
	LinuxArmV6L  Platform = "linux-armv6l"
	LinuxArmV7L  Platform = "linux-armv7l"
	LinuxPPC64   Platform = "linux-ppc64"
	LinuxPPC64LE Platform = "linux-ppc64le"
	LinuxRiscV64 Platform = "linux-riscv64"
	LinuxSys390  Platform = "linux-s390x"
	OSX64        Platform = "osx-64"
	OSXArm64     Platform = "osx-arm64"
	Win32        Platform = "win-32"
	Win64        Platform = "win-64"
	WinArm64     Platform = "win-arm64"
)

var AllPlatforms = []Platform{
	LinuxP32, Linux64, LinuxAarch64, LinuxArmV6L, LinuxArmV7L,
	LinuxPPC64, LinuxPPC64LE, LinuxRiscV64, LinuxSys390,
	OSX64, OSXArm64,
	Win32, Win64, WinArm64,
}

// NoArch indicates there is no specific target platform.
const NoArch = "noarch"

func platformSet(ps ...Platform) map[Platform]bool {
	m := make(map[Platform]bool, len(ps))
	for _, p := range ps {
		m[p] = true
	}
	return m
}

var (
	x8664Platforms = []Platform{Linux64, OSX64, Win64}
	linuxPlatforms = []Platform{
		LinuxP32, Linux64, LinuxAarch64, LinuxArmV6L, LinuxArmV7L,
		LinuxPPC64, LinuxPPC64LE, LinuxRiscV64, LinuxSys390,
	}
	osxPlatforms = []Platform{OSX64, OSXArm64}
	winPlatforms = []Platform{Win32, Win64, WinArm64}
)

// PlatformsByArch returns the build platforms supporting an
// architecture. Unknown architectures return an empty set.
func PlatformsByArch(arch Arch) map[Platform]bool {
	switch arch {
	case Sys390:
		return platformSet(LinuxSys390)
	case X86:
		return platformSet(append([]Platform{LinuxP32, Win32}, x8664Platforms...)...)
	case X8664:
		return platformSet(x8664Platforms...)
	case Arm64:
		return platformSet(OSXArm64, WinArm64)
	case ArmV6L:
		return platformSet(LinuxArmV6L)
	case ArmV7L:
		return platformSet(LinuxArmV7L)
	case PPC64:
		return platformSet(LinuxPPC64)
	case PPC64LE:
		return platformSet(LinuxPPC64LE)
	}
	return map[Platform]bool{}
}

// PlatformsByOS returns the build platforms belonging to an operating
// system. Unknown systems return an empty set.
func PlatformsByOS(os OperatingSystem) map[Platform]bool {
	switch os {
	case Linux:
		return platformSet(linuxPlatforms...)
	case OSX:
		return platformSet(osxPlatforms...)
	case Unix:
		return platformSet(append(append([]Platform(nil), linuxPlatforms...), osxPlatforms...)...)
	case Windows:
		return platformSet(winPlatforms...)
	}
	return map[Platform]bool{}
}

// QualifierMatches reports whether a selector token selects the given
// platform. Tokens that are not a recognized platform, operating system
// or architecture qualifier never match.
func QualifierMatches(tok string, plat Platform) bool {
	if Platform(tok) == plat {
		return true
	}
	for _, os := range AllOperatingSystems {
		if string(os) == tok {
			return PlatformsByOS(os)[plat]
		}
	}
	for _, arch := range AllArchitectures {
		if string(arch) == tok {
			return PlatformsByArch(arch)[plat]
		}
	}
	return false
}
