package database

import (
	"errors"

	"github.com/Payphone-Digital/chirpy/config"
	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoUser defines the demo account created by Seed
type DemoUser struct {
	Name     string
	Email    string
	Password string
}

func GetDemoUser(cfg *config.Config) DemoUser {
	return DemoUser{
		Name:     constants.DemoUserName,
		Email:    constants.DemoUserEmail,
		Password: cfg.Seed.DemoPassword,
	}
}

// Seed creates initial data when enabled in cfg.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Seed.DemoUser {
		return nil
	}
	return SeedDemoUser(db, GetDemoUser(cfg), cfg.Security.BcryptCost)
}

// SeedDemoUser creates demo unless a user with its email already exists.
func SeedDemoUser(db *gorm.DB, demo DemoUser, cost int) error {
	if demo.Password == "" {
		return errors.New("demo user password is empty")
	}

	var existing model.User
	result := db.Where("lower(email) = lower(?)", demo.Email).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(demo.Password), cost)
	if err != nil {
		return err
	}

	return db.Create(&model.User{
		Name:     demo.Name,
		Email:    demo.Email,
		Password: string(hashed),
	}).Error
}
