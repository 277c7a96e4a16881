package services

import "crypto/subtle"

// managerServiceImpl implements the ManagerService interface
type managerServiceImpl struct {
	password []byte
}

// NewManagerService creates a ManagerService for the configured password
func NewManagerService(password string) ManagerService {
	return &managerServiceImpl{password: []byte(password)}
}

// VerifyPassword compares in constant time. An unset password never matches.
func (m *managerServiceImpl) VerifyPassword(password string) bool {
	if len(m.password) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(m.password, []byte(password)) == 1
}
