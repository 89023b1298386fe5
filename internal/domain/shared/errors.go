package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Team-related errors

type TeamError struct {
	*DomainError
	TeamID int
}

func NewTeamError(message string, teamID int) *TeamError {
	return &TeamError{
		DomainError: &DomainError{Message: message},
		TeamID:      teamID,
	}
}

type UnknownTeamError struct {
	*TeamError
}

func NewUnknownTeamError(teamID int) *UnknownTeamError {
	return &UnknownTeamError{
		TeamError: NewTeamError(fmt.Sprintf("unknown team: %d", teamID), teamID),
	}
}
