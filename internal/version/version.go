package version

import (
	"fmt"
	"os"
	"runtime"
)

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
var Version = "0.3.0"

// HasVersionArg reports whether the first argument asks for the version
func HasVersionArg() bool {
	if len(os.Args) > 1 {
		arg := os.Args[1]
		return arg == "--version" || arg == "-version" || arg == "-v" || arg == "--v" || arg == "version"
	}
	return false
}

// String returns the one-line version banner
func String() string {
	return fmt.Sprintf("ArabStream v%s (%s/%s, %s)", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func ShowVersion() {
	fmt.Println(String())
}
