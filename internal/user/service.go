package user

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/online-shop-backend/internal/mailer"
)

type Service struct {
	repo Repository
	mail mailer.Queue
}

// NewService builds a customer service. mail may be nil when no
// notification pipeline is wired, e.g. in tests.
func NewService(repo Repository, mail mailer.Queue) *Service {
	return &Service{repo: repo, mail: mail}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

// Register stores a new customer with a bcrypt-hashed password and queues
// a welcome email. A failure to enqueue the email never fails the signup.
func (s *Service) Register(ctx context.Context, u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Password = string(hashed)

	created, err := s.repo.Create(u)
	if err != nil {
		return User{}, err
	}

	if s.mail != nil {
		task := mailer.Task{Kind: mailer.TaskCustomerRegistered, CustomerID: created.ID}
		if err := s.mail.Enqueue(ctx, task); err != nil {
			log.Printf("user: enqueue welcome mail for customer %d: %v", created.ID, err)
		}
	}

	return created, nil
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) UpdateProfile(id int, update User) (User, error) {
	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		update.Password = string(hashed)
	}

	return s.repo.Update(id, update)
}
