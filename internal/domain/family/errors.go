package family

import "errors"

var (
	ErrMemberNotFound      = errors.New("family member not found")
	ErrInvalidRelationship = errors.New("invalid relationship value")
	ErrInvalidGender       = errors.New("invalid gender value")
	ErrInvalidBloodGroup   = errors.New("invalid blood group")
	ErrInvalidPhone        = errors.New("invalid phone number format")
	ErrInvalidEmail        = errors.New("invalid email format")
)
