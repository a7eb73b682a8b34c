package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	GetAddresses(userID int) ([]Address, error)
	AddAddress(addr Address) (Address, error)
	UpdateAddress(addr Address) (Address, error)
	DeleteAddress(userID, addressID int) error
	SetDefault(userID, addressID int) error
}

// InMemoryRepository backs tests and database-less runs.
type InMemoryRepository struct {
	mu     sync.Mutex
	data   map[int][]Address // keyed by userID
	nextID int
}

func NewInMemoryRepository(seed map[int][]Address) *InMemoryRepository {
	repo := &InMemoryRepository{data: map[int][]Address{}, nextID: 1}
	for uid, addrs := range seed {
		repo.data[uid] = append(repo.data[uid], addrs...)
		for _, a := range addrs {
			if a.AddressID >= repo.nextID {
				repo.nextID = a.AddressID + 1
			}
		}
	}
	return repo
}

func (r *InMemoryRepository) GetAddresses(userID int) ([]Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	addrs := make([]Address, len(r.data[userID]))
	copy(addrs, r.data[userID])
	return addrs, nil
}

func (r *InMemoryRepository) AddAddress(addr Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr.AddressID = r.nextID
	r.nextID++
	r.data[addr.UserID] = append(r.data[addr.UserID], addr)
	return addr, nil
}

func (r *InMemoryRepository) UpdateAddress(addr Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	addrs := r.data[addr.UserID]
	for i, a := range addrs {
		if a.AddressID == addr.AddressID {
			addr.CreatedAt = a.CreatedAt
			addrs[i] = addr
			return addr, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) DeleteAddress(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	addrs := r.data[userID]
	for i, a := range addrs {
		if a.AddressID == addressID {
			r.data[userID] = append(addrs[:i], addrs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetDefault(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	addrs := r.data[userID]
	found := false
	for i := range addrs {
		addrs[i].IsDefault = addrs[i].AddressID == addressID
		if addrs[i].IsDefault {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
