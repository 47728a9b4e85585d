package auth

import "strings"

// LoginForm is posted by the login page.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is posted by the register toggle of the login page.
type RegisterForm struct {
	Name            string `form:"name" validate:"required,min=2,max=100"`
	Email           string `form:"email" validate:"required,email,max=255"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

func (f *LoginForm) Trim() {
	f.Email = strings.TrimSpace(f.Email)
}

func (f *RegisterForm) Trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
}
