//go:build !linux

package uithread

func threadID() int64 {
	return 0
}
