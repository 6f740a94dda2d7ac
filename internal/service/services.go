package service

import (
	"github.com/MKhiriev/vosh/internal/config"
	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/internal/store"
	"github.com/MKhiriev/vosh/internal/validators"
)

type Services struct {
	AuthService    AuthService
	AccountService AccountService
}

func NewServices(userRepository store.UserRepository, hasher crypto.Hasher, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	validator := validators.NewCredentialValidator(userRepository, hasher)
	return &Services{
		AuthService:    NewAuthService(userRepository, hasher, cfg.Auth, logger),
		AccountService: NewAccountService(userRepository, hasher, validator, cfg, logger),
	}
}
