package watcher

import (
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/lull/internal/core/domain"
)

// ConvertEvent exposes convertEvent for testing.
func ConvertEvent(event fsnotify.Event) (domain.RawEvent, bool) {
	return convertEvent(event)
}
