package services

import (
	"errors"

	"github.com/netineti-netineti/AtomicAds/config"
	"github.com/netineti-netineti/AtomicAds/models"
	"github.com/netineti-netineti/AtomicAds/utils"
)

func RegisterUser(name, email, password string, teamID *uint) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		TeamID:   teamID,
	}
	return config.DB.Create(&user).Error
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("user not found")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	return utils.GenerateJWT(user.ID, user.Email)
}
