package dto

type SignInInput struct {
	DisplayName string
	Email       string
}

type UserOutput struct {
	UID         string
	DisplayName string
	Email       string
}
