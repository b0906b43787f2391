package personnel

import "errors"

var (
	ErrInvalidID        = errors.New("personnel: invalid id")
	ErrInvalidName      = errors.New("personnel: invalid name")
	ErrInvalidType      = errors.New("personnel: invalid type")
	ErrInvalidCompany   = errors.New("personnel: invalid company")
	ErrInvalidPosition  = errors.New("personnel: invalid position")
	ErrInvalidStartDate = errors.New("personnel: invalid start date")
	ErrInvalidEmail     = errors.New("personnel: invalid email")
)
