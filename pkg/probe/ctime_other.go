//go:build !linux

package probe

import (
	"io/fs"
	"time"
)

func changeTime(_ string, info fs.FileInfo) time.Time {
	return info.ModTime()
}
