package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidData marks a join/create payload that failed decoding or validation.
var ErrInvalidData = errors.New("invalid data")

// JoinRequest is the payload of both create-room and join-room.
type JoinRequest struct {
	RoomID   RoomID `json:"roomId" validate:"required,max=36"`
	Username string `json:"username" validate:"required,max=36"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseJoinRequest decodes and validates an untrusted payload.
// Every failure wraps ErrInvalidData.
func ParseJoinRequest(raw json.RawMessage) (JoinRequest, error) {
	var req JoinRequest
	if len(raw) == 0 {
		return req, fmt.Errorf("%w: empty payload", ErrInvalidData)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return JoinRequest{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	req.RoomID = RoomID(strings.TrimSpace(string(req.RoomID)))
	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		return JoinRequest{}, err
	}
	return req, nil
}

func (r JoinRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError(fe))
	}
	return fmt.Errorf("%w: %w", ErrInvalidData, errors.Join(errs...))
}

func fieldError(fe validator.FieldError) error {
	switch fe.StructField() + "." + fe.Tag() {
	case "RoomID.required":
		return ErrRoomIDEmpty
	case "RoomID.max":
		return ErrRoomIDTooLong
	case "Username.required":
		return ErrUsernameEmpty
	case "Username.max":
		return ErrUsernameTooLong
	}
	return fmt.Errorf("%s failed %s", fe.Field(), fe.Tag())
}
