package auctionerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
		kind Kind
	}{
		{"required", Required("name"), "name is not optional", KindRequirement},
		{"empty", Empty("surname"), "surname is empty", KindValue},
		{"negative", Negative("start_price"), "start_price is negative", KindValue},
		{"date order", DateOrder("finish_date", "start_date"), "finish_date is before start_date", KindValue},
		{"not email", NotEmail("peter"), "peter is not an e-mail", KindFormat},
		{"invalid id", InvalidID("xyz"), `id "xyz" is not valid`, KindFormat},
		{"not image", NotImage("text/plain"), `"text/plain" is not an image`, KindFormat},
		{"user email exists", UserEmailExists("peter@parker.com"), `user with email "peter@parker.com" already exist`, KindConflict},
		{"email exists", EmailExists("mj@watson.com"), `email "mj@watson.com" already exist`, KindConflict},
		{"user email not found", UserEmailNotFound("x@y.z"), `user with email "x@y.z" doesn't exist`, KindNotFound},
		{"user id not found", UserIDNotFound("abc"), `user with id "abc" does not exist`, KindNotFound},
		{"item not found", ItemNotFound("abc"), `item with id "abc" doesn't exist`, KindNotFound},
		{"wrong credentials", WrongCredentials(), "wrong credentials", KindUnauthorized},
		{"below start price", BelowStartPrice(15), `sorry, the current bid "15" is lower than the start price`, KindDomainRule},
		{"below current", BelowCurrentAmount(20.5), `sorry, the bid "20.5" is lower than the current amount`, KindDomainRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.kind, KindOf(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("service: %w", ItemNotFound("abc"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound, Code: CodeItemNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound, Code: CodeUserIDNotFound}))
}

func TestInvalidToken_KeepsVerifierMessage(t *testing.T) {
	cause := fmt.Errorf("%w: signature is invalid", jwt.ErrTokenSignatureInvalid)
	err := InvalidToken(cause)

	assert.Equal(t, cause.Error(), err.Error())
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestMalformedBody(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := MalformedBody(cause)

	assert.Equal(t, "request body is malformed", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
