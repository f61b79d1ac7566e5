//go:build !linux && !darwin

package wallpaper

var (
	platformHome [][]string
	platformLock [][]string
)
