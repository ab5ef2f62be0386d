package uithread

import "errors"

var errAlreadyRunning = errors.New("uithread: loop already running")
