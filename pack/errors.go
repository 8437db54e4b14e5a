package pack

import "errors"

var errShortSrc = errors.New("pack: source buffer too short")
