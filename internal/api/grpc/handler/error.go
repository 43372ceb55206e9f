package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/musehabit-server/internal/model"
)

func handleError(err error) error {
	var cadenceErr *model.CadenceError

	switch {
	case errors.As(err, &cadenceErr):
		return status.Error(codes.FailedPrecondition, cadenceErr.Error())
	case errors.Is(err, model.ErrCannotPostYet):
		return status.Error(codes.FailedPrecondition, model.ErrCannotPostYet.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "artist not found")
	case errors.Is(err, model.ErrUsernameTaken):
		return status.Error(codes.AlreadyExists, model.ErrUsernameTaken.Error())
	case errors.Is(err, model.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, model.ErrEmailTaken.Error())
	case errors.Is(err, model.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
