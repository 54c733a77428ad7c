package service

import "errors"

// Sentinel kinds returned by the service.
var (
	ErrNoSource     = errors.New("no mission source configured")
	ErrFetchMission = errors.New("fetch mission failed")
)
