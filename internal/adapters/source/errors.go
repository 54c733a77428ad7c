package source

import "errors"

// Sentinel kinds for mission source errors.
var (
	ErrMissionNotFound = errors.New("mission not found")
	ErrInvalidMission  = errors.New("invalid mission name")
	ErrReadArtifact    = errors.New("read artifact failed")
)
