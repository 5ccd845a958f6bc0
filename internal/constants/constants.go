// Package constants holds the well-known Termux paths and identifiers
// shared across the tool.
package constants

// Termux application identity and filesystem layout on the device
const (
	TermuxApp   = "com.termux"
	TermuxFiles = "/data/data/com.termux/files"
	TermuxHome  = TermuxFiles + "/home"
	TermuxUsr   = TermuxFiles + "/usr"
)

// DefaultInstallPrefix is where box64 installs unless the profile says
// otherwise. Kept outside $PREFIX/bin so pkg upgrades never touch it.
const DefaultInstallPrefix = TermuxUsr + "/local"

// DefaultSSHPort is the port Termux sshd listens on. Termux cannot bind
// the privileged port 22.
const DefaultSSHPort = 8022

// TermuxAPKURL is the pinned F-Droid release side-loaded when Termux is
// missing and no local APK is supplied.
const TermuxAPKURL = "https://f-droid.org/repo/com.termux_1022.apk"

// WinetricksURL is the upstream winetricks script, installed next to wine.
const WinetricksURL = "https://raw.githubusercontent.com/Winetricks/winetricks/master/src/winetricks"
