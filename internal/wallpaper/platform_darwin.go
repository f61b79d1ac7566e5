//go:build darwin

package wallpaper

var (
	platformHome = [][]string{
		{"osascript", "-e", `tell application "System Events" to tell every desktop to set picture to "{file}"`},
	}
	// macOS has no scriptable lock-screen image.
	platformLock [][]string
)
