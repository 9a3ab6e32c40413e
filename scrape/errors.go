package scrape

import "errors"

var (
	ErrNotFound        = errors.New("scrape: creator not found")
	ErrBlocked         = errors.New("scrape: blocked by anti-bot")
	ErrInvalidResponse = errors.New("scrape: invalid response")
)
