package feed

import "errors"

// Sentinel kinds for feed loading errors. Both are fatal for the session:
// the quiz never starts on a partial data set.
var (
	ErrLoadCatalog   = errors.New("load catalog feed failed")
	ErrLoadQuestions = errors.New("load question feed failed")
)
