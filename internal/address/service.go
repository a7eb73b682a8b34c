package address

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrInvalid = errors.New("street, city, phone and a 6-digit pincode are required")

	pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAddresses(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetAddresses(userID)
}

// Default returns the user's default address, or the first saved one
// when no default is marked.
func (s *Service) Default(userID int) (Address, error) {
	addrs, err := s.GetAddresses(userID)
	if err != nil {
		return Address{}, err
	}
	if len(addrs) == 0 {
		return Address{}, ErrNotFound
	}
	for _, a := range addrs {
		if a.IsDefault {
			return a, nil
		}
	}
	return addrs[0], nil
}

// AddAddress validates and stores a new address. A user's first address
// becomes the default automatically.
func (s *Service) AddAddress(userID int, addr Address) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(addr); err != nil {
		return Address{}, err
	}

	existing, err := s.repo.GetAddresses(userID)
	if err != nil {
		return Address{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	addr.UserID = userID
	addr.CreatedAt = now
	addr.UpdatedAt = now
	if len(existing) == 0 {
		addr.IsDefault = true
	}
	return s.repo.AddAddress(addr)
}

func (s *Service) UpdateAddress(userID int, addr Address) (Address, error) {
	if userID <= 0 || addr.AddressID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(addr); err != nil {
		return Address{}, err
	}
	addr.UserID = userID
	addr.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.UpdateAddress(addr)
}

func (s *Service) DeleteAddress(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.DeleteAddress(userID, addressID)
}

func (s *Service) SetDefault(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.SetDefault(userID, addressID)
}

func validate(a Address) error {
	if a.Street == "" || a.City == "" || a.Phone == "" || !pincodeRe.MatchString(a.Pincode) {
		return ErrInvalid
	}
	return nil
}
