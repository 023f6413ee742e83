package validation

import "github.com/ndewijer/Trade-Journal-Backend/internal/api/request"

func ValidateUpdateProfile(req request.UpdateProfileRequest) error {
	return Struct(req)
}

func ValidateCreateUser(req request.CreateUserRequest) error {
	return Struct(req)
}

func ValidateUpdateUser(req request.UpdateUserRequest) error {
	return Struct(req)
}
