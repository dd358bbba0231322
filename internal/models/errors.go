package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors
var (
	ErrAmendmentNumberRequired    = errors.New("the amendment number must be set")
	ErrAmendmentNumberNotUnique   = errors.New("the amendment number must be unique")
	ErrParlamentarRequired        = errors.New("the parliamentarian must be set")
	ErrCoAuthorValueWithoutAuthor = errors.New("the value of the second responsible parliamentarian can only be set when there is a second parliamentarian")
	ErrTotalBelowAllocated        = errors.New("the total value cannot be lower than the value already allocated to destinations")
	ErrResourceTypeInvalid        = errors.New("the resource type is invalid")
	ErrActionNameRequired         = errors.New("the action name must be set")
	ErrComplexityInvalid          = errors.New("the complexity must be one of BAIXA, MEDIA, ALTA or empty")
	ErrDestinationNotUnique       = errors.New("an action can only have one destination per category")
	ErrValueNotPositive           = errors.New("the value must be larger than zero")
	ErrExecutionStatusInvalid     = errors.New("the execution status must be one of PLANEJADA, EMPENHADA, LIQUIDADA, PAGA")
	ErrTransferStatusInvalid      = errors.New("the transfer status must be one of REPASSADO, PENDENTE, CANCELADO")
	ErrDestinationOtherAmendment  = errors.New("the destination of an expense must belong to an action of the same amendment")
)
