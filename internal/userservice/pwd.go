package userservice

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 12

// dummyHash is compared against for unknown usernames so a failed login costs one bcrypt run either way.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), passwordCost)
	return hash
})

func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), passwordCost)
	if err != nil {
		return err
	}

	p.Plain = pwd
	p.hash = hash

	return nil
}

// compare reports whether pwd matches the stored hash. A mismatch is not an error.
func (p *Password) compare(pwd string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func compareDummy(pwd string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(pwd))
}
