package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

// AddressService manages the address book embedded on the user document.
// Addresses are referenced by their position in the array.
type AddressService struct {
	db *store.Store
}

func NewAddressService(db *store.Store) *AddressService {
	return &AddressService{db: db}
}

type AddressInput struct {
	Label      string `json:"label"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode" binding:"required"`
	IsDefault  *bool  `json:"isDefault"`
}

func (in AddressInput) toModel() models.Address {
	return models.Address{
		Label:      in.Label,
		Name:       in.Name,
		Phone:      in.Phone,
		Email:      in.Email,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
	}
}

func (s *AddressService) loadUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load user")
	}
	return &user, nil
}

func (s *AddressService) saveAddresses(ctx context.Context, userID primitive.ObjectID, addresses []models.Address) error {
	_, err := s.db.Collection(store.ColUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"addresses": addresses, "updatedAt": time.Now()}})
	if err != nil {
		return apperror.From(err, "Failed to save addresses")
	}
	return nil
}

func (s *AddressService) List(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Addresses == nil {
		return []models.Address{}, nil
	}
	return user.Addresses, nil
}

// Add appends an address. The first address, or one flagged as default,
// becomes the sole default.
func (s *AddressService) Add(ctx context.Context, userID primitive.ObjectID, input AddressInput) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	isDefault := len(user.Addresses) == 0
	if input.IsDefault != nil {
		isDefault = *input.IsDefault
	}
	if isDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
	}

	address := input.toModel()
	address.IsDefault = isDefault
	user.Addresses = append(user.Addresses, address)

	if err := s.saveAddresses(ctx, userID, user.Addresses); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *AddressService) Update(ctx context.Context, userID primitive.ObjectID, index int, input AddressInput) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.Addresses) {
		return nil, apperror.NotFound("Address not found")
	}

	address := input.toModel()
	address.IsDefault = user.Addresses[index].IsDefault
	if input.IsDefault != nil && *input.IsDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
		address.IsDefault = true
	}
	user.Addresses[index] = address

	if err := s.saveAddresses(ctx, userID, user.Addresses); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

// Delete removes an address by index. If the default was removed, the first
// remaining address inherits the flag.
func (s *AddressService) Delete(ctx context.Context, userID primitive.ObjectID, index int) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.Addresses) {
		return nil, apperror.NotFound("Address not found")
	}

	user.Addresses = append(user.Addresses[:index], user.Addresses[index+1:]...)

	hasDefault := false
	for _, addr := range user.Addresses {
		if addr.IsDefault {
			hasDefault = true
			break
		}
	}
	if len(user.Addresses) > 0 && !hasDefault {
		user.Addresses[0].IsDefault = true
	}

	if err := s.saveAddresses(ctx, userID, user.Addresses); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID primitive.ObjectID, index int) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.Addresses) {
		return nil, apperror.NotFound("Address not found")
	}

	for i := range user.Addresses {
		user.Addresses[i].IsDefault = i == index
	}

	if err := s.saveAddresses(ctx, userID, user.Addresses); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}
