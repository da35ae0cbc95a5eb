package transport

type CreateCategoryRequest struct {
	Name      string `json:"name"        validate:"required"`
	Slug      string `json:"slug"        validate:"required"`
	UseInMenu bool   `json:"use_in_menu"`
}

type PatchCategoryRequest struct {
	Name      *string `json:"name"        validate:"omitempty,min=1"`
	Slug      *string `json:"slug"        validate:"omitempty,min=1"`
	UseInMenu *bool   `json:"use_in_menu"`
}

type CreateUserRequest struct {
	FirstName       string `json:"firstname"       validate:"required"`
	Surname         string `json:"surname"         validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type PatchUserRequest struct {
	FirstName *string `json:"firstname" validate:"omitempty,min=1"`
	Surname   *string `json:"surname"   validate:"omitempty,min=1"`
	Email     *string `json:"email"     validate:"omitempty,email"`
}

type TokenRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
