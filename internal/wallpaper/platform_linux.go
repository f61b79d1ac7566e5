//go:build linux

package wallpaper

var (
	platformHome = [][]string{
		{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", "file://{file}"},
		{"gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", "file://{file}"},
	}
	platformLock = [][]string{
		{"gsettings", "set", "org.gnome.desktop.screensaver", "picture-uri", "file://{file}"},
	}
)
