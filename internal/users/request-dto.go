package users

import "strings"

// ProfileForm is the editable part of the profile.
type ProfileForm struct {
	Name  string `form:"name" validate:"required,min=2,max=100"`
	Email string `form:"email" validate:"required,email,max=255"`
}

func (f *ProfileForm) Trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
}

func FormFromUser(u *User) ProfileForm {
	if u == nil {
		return ProfileForm{}
	}
	return ProfileForm{Name: u.Name, Email: u.Email}
}
