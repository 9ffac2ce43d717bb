// Package auctionerrors defines the typed errors returned by the auction core.
//
// Every error carries a Kind, a Code selecting the message template and the
// Params the template is rendered with, so callers can either show Error()
// or build their own message from the structured data.
package auctionerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error.
type Kind string

const (
	KindRequirement  Kind = "requirement"
	KindValue        Kind = "value"
	KindFormat       Kind = "format"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindDomainRule   Kind = "domain_rule"
)

// Code identifies the message template of an error.
type Code string

const (
	CodeNotOptional        Code = "not_optional"
	CodeEmpty              Code = "empty"
	CodeNegative           Code = "negative"
	CodeDateOrder          Code = "date_order"
	CodeNotEmail           Code = "not_email"
	CodeInvalid            Code = "invalid"
	CodeNotImage           Code = "not_image"
	CodeMalformedBody      Code = "malformed_body"
	CodeUserEmailExists    Code = "user_email_exists"
	CodeEmailExists        Code = "email_exists"
	CodeUserEmailNotFound  Code = "user_email_not_found"
	CodeUserIDNotFound     Code = "user_id_not_found"
	CodeItemNotFound       Code = "item_not_found"
	CodeImageNotFound      Code = "image_not_found"
	CodeWrongCredentials   Code = "wrong_credentials"
	CodeInvalidToken       Code = "invalid_token"
	CodeBelowStartPrice    Code = "below_start_price"
	CodeBelowCurrentAmount Code = "below_current_amount"
)

var templates = map[Code]string{
	CodeNotOptional:        "{field} is not optional",
	CodeEmpty:              "{field} is empty",
	CodeNegative:           "{field} is negative",
	CodeDateOrder:          "{field} is before {other}",
	CodeNotEmail:           "{value} is not an e-mail",
	CodeInvalid:            `{field} "{value}" is not valid`,
	CodeNotImage:           `"{value}" is not an image`,
	CodeMalformedBody:      "request body is malformed",
	CodeUserEmailExists:    `user with email "{email}" already exist`,
	CodeEmailExists:        `email "{email}" already exist`,
	CodeUserEmailNotFound:  `user with email "{email}" doesn't exist`,
	CodeUserIDNotFound:     `user with id "{id}" does not exist`,
	CodeItemNotFound:       `item with id "{id}" doesn't exist`,
	CodeImageNotFound:      `image "{key}" doesn't exist`,
	CodeWrongCredentials:   "wrong credentials",
	CodeBelowStartPrice:    `sorry, the current bid "{amount}" is lower than the start price`,
	CodeBelowCurrentAmount: `sorry, the bid "{amount}" is lower than the current amount`,
}

// Error is the error type returned by the auction core.
type Error struct {
	Kind   Kind
	Code   Code
	Params map[string]any
	Err    error
}

// Error renders the message template with the error parameters.
func (e *Error) Error() string {
	tmpl, ok := templates[e.Code]
	if !ok {
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
	if len(e.Params) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(e.Params)*2)
	for k, v := range e.Params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target with a code also
// requires the codes to be equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Sentinels matching any error of a kind through errors.Is.
var (
	ErrRequirement  = &Error{Kind: KindRequirement}
	ErrValue        = &Error{Kind: KindValue}
	ErrFormat       = &Error{Kind: KindFormat}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrDomainRule   = &Error{Kind: KindDomainRule}
)

// KindOf returns the kind of err, or an empty Kind when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, code Code, params map[string]any) *Error {
	return &Error{Kind: kind, Code: code, Params: params}
}

// Required reports a mandatory field that was not supplied.
func Required(field string) *Error {
	return newError(KindRequirement, CodeNotOptional, map[string]any{"field": field})
}

// Empty reports a field supplied with a blank value.
func Empty(field string) *Error {
	return newError(KindValue, CodeEmpty, map[string]any{"field": field})
}

// Negative reports a numeric field below zero.
func Negative(field string) *Error {
	return newError(KindValue, CodeNegative, map[string]any{"field": field})
}

// DateOrder reports a date field preceding the one it has to follow.
func DateOrder(field, other string) *Error {
	return newError(KindValue, CodeDateOrder, map[string]any{"field": field, "other": other})
}

// NotEmail reports a malformed e-mail address.
func NotEmail(value string) *Error {
	return newError(KindFormat, CodeNotEmail, map[string]any{"value": value})
}

// Invalid reports a value that cannot be parsed as the field requires.
func Invalid(field, value string) *Error {
	return newError(KindFormat, CodeInvalid, map[string]any{"field": field, "value": value})
}

// InvalidID reports a malformed identifier.
func InvalidID(id string) *Error {
	return Invalid("id", id)
}

// NotImage reports an upload whose content type is not an image.
func NotImage(contentType string) *Error {
	return newError(KindFormat, CodeNotImage, map[string]any{"value": contentType})
}

// MalformedBody reports a request body that could not be decoded.
func MalformedBody(err error) *Error {
	e := newError(KindFormat, CodeMalformedBody, nil)
	e.Err = err
	return e
}

// UserEmailExists reports a registration with a taken e-mail.
func UserEmailExists(email string) *Error {
	return newError(KindConflict, CodeUserEmailExists, map[string]any{"email": email})
}

// EmailExists reports an update to a taken e-mail.
func EmailExists(email string) *Error {
	return newError(KindConflict, CodeEmailExists, map[string]any{"email": email})
}

// UserEmailNotFound reports an unknown e-mail.
func UserEmailNotFound(email string) *Error {
	return newError(KindNotFound, CodeUserEmailNotFound, map[string]any{"email": email})
}

// UserIDNotFound reports an unknown user id.
func UserIDNotFound(id string) *Error {
	return newError(KindNotFound, CodeUserIDNotFound, map[string]any{"id": id})
}

// ItemNotFound reports an unknown item id.
func ItemNotFound(id string) *Error {
	return newError(KindNotFound, CodeItemNotFound, map[string]any{"id": id})
}

// ImageNotFound reports an unknown image key.
func ImageNotFound(key string) *Error {
	return newError(KindNotFound, CodeImageNotFound, map[string]any{"key": key})
}

// WrongCredentials reports an e-mail/password pair that does not match.
func WrongCredentials() *Error {
	return newError(KindUnauthorized, CodeWrongCredentials, nil)
}

// InvalidToken wraps a token verification failure; the message is the verifier's own.
func InvalidToken(err error) *Error {
	e := newError(KindUnauthorized, CodeInvalidToken, nil)
	e.Err = err
	return e
}

// BelowStartPrice reports a first bid that does not exceed the start price.
func BelowStartPrice(amount float64) *Error {
	return newError(KindDomainRule, CodeBelowStartPrice, map[string]any{"amount": amount})
}

// BelowCurrentAmount reports a bid that does not exceed the newest bid.
func BelowCurrentAmount(amount float64) *Error {
	return newError(KindDomainRule, CodeBelowCurrentAmount, map[string]any{"amount": amount})
}
