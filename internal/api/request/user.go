package request

type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url,max=500"`
}

type CreateUserRequest struct {
	AuthID string   `json:"authId" validate:"required,max=128"`
	Name   string   `json:"name" validate:"max=100"`
	Email  string   `json:"email" validate:"required,email"`
	Role   string   `json:"role" validate:"omitempty,oneof=admin user"`
	Tags   []string `json:"tags" validate:"omitempty,dive,required,max=30"`
}

type UpdateUserRequest struct {
	Name  *string   `json:"name,omitempty" validate:"omitempty,max=100"`
	Email *string   `json:"email,omitempty" validate:"omitempty,email"`
	Role  *string   `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Tags  *[]string `json:"tags,omitempty" validate:"omitempty,dive,required,max=30"`
}
