package domain

import "errors"

var (
	ErrInvalidCycleTime = errors.New("invalid cycle time")
	ErrInvalidInterval  = errors.New("invalid cycle interval")
	ErrInvalidRange     = errors.New("invalid cycle range")
	ErrInputDirMissing  = errors.New("input directory does not exist")
	ErrCycleDirMissing  = errors.New("cycle directory does not exist")
	ErrEmptyFile        = errors.New("file has no header")
	ErrDuplicateColumn  = errors.New("duplicate column in header")
)
