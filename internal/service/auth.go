// Package service implements the business rules on top of the Mongo store.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/config"
	"bazaarwale-backend/internal/mail"
	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

const bcryptCost = 12

type AuthService struct {
	db     *store.Store
	cfg    *config.Config
	log    *zap.Logger
	mailer mail.Mailer
}

func NewAuthService(db *store.Store, cfg *config.Config, log *zap.Logger, mailer mail.Mailer) *AuthService {
	return &AuthService{db: db, cfg: cfg, log: log, mailer: mailer}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterCustomerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type RegisterVendorInput struct {
	RegisterCustomerInput
	BusinessName string                  `json:"businessName" binding:"required"`
	GstNumber    string                  `json:"gstNumber"`
	AadharNumber string                  `json:"aadharNumber"`
	PanNumber    string                  `json:"panNumber"`
	Documents    []models.VendorDocument `json:"documents"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Role       string `json:"role"`
	Password   string `json:"password" binding:"required"`
}

// RequestContext carries the client fingerprint recorded on sessions.
type RequestContext struct {
	UserAgent string
	IPAddress string
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// FindActive loads a user that has not been soft-deleted. Satisfies the auth
// middleware's UserLoader.
func (s *AuthService) FindActive(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(store.ColUsers).
		FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).
		Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ensureIdentifiersAreFree guards the sparse unique semantics on email and
// phone across live accounts.
func (s *AuthService) ensureIdentifiersAreFree(ctx context.Context, email, phone string, exclude *primitive.ObjectID) error {
	var or []bson.M
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if phone != "" {
		or = append(or, bson.M{"phone": phone})
	}
	if len(or) == 0 {
		return nil
	}

	query := bson.M{"isDeleted": false, "$or": or}
	if exclude != nil {
		query["_id"] = bson.M{"$ne": *exclude}
	}

	err := s.db.Collection(store.ColUsers).FindOne(ctx, query).Err()
	if err == nil {
		return apperror.Conflict("Email or phone already in use")
	}
	if err != mongo.ErrNoDocuments {
		return err
	}
	return nil
}

func (s *AuthService) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*models.User, error) {
	if input.Email == "" && input.Phone == "" {
		return nil, apperror.BadRequest("Either email or phone must be provided")
	}

	if err := s.ensureIdentifiersAreFree(ctx, input.Email, input.Phone, nil); err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Role:      models.RoleCustomer,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Addresses: []models.Address{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	res, err := s.db.Collection(store.ColUsers).InsertOne(ctx, user)
	if err != nil {
		return nil, apperror.From(err, "Failed to register user")
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// RegisterVendor creates or upgrades an account and files a verification
// request with the four mandatory documents. The role flips to vendor only
// when an admin approves.
func (s *AuthService) RegisterVendor(ctx context.Context, input RegisterVendorInput, existingUserID *primitive.ObjectID) (*models.User, error) {
	if strings.TrimSpace(input.GstNumber) == "" {
		return nil, apperror.BadRequest("GST number is required for vendor registration")
	}
	if strings.TrimSpace(input.AadharNumber) == "" {
		return nil, apperror.BadRequest("Aadhaar number is required for vendor registration")
	}
	if strings.TrimSpace(input.PanNumber) == "" {
		return nil, apperror.BadRequest("PAN number is required for vendor registration")
	}
	if missing := models.RequiredDocuments(input.Documents); len(missing) > 0 {
		return nil, apperror.BadRequest("Aadhaar front, Aadhaar back, GST certificate, and PAN card are required for vendor verification")
	}

	users := s.db.Collection(store.ColUsers)
	now := time.Now()

	var user *models.User
	if existingUserID != nil {
		found, err := s.FindActive(ctx, *existingUserID)
		if err != nil {
			return nil, apperror.From(err, "Failed to load user")
		}
		if found.Role == models.RoleVendor || found.Role == models.RoleAdmin {
			return nil, apperror.BadRequest("User is already a vendor or admin")
		}

		count, err := s.db.Collection(store.ColVendorVerifications).CountDocuments(ctx, bson.M{
			"userId": found.ID,
			"status": models.VerificationPending,
		})
		if err != nil {
			return nil, apperror.From(err, "Failed to check vendor applications")
		}
		if count > 0 {
			return nil, apperror.BadRequest("You already have a pending vendor application")
		}

		update := bson.M{
			"businessName": input.BusinessName,
			"gstNumber":    input.GstNumber,
			"aadharNumber": input.AadharNumber,
			"panNumber":    input.PanNumber,
			"vendorStatus": models.VendorPending,
			"updatedAt":    now,
		}
		if input.Name != "" {
			update["name"] = input.Name
		}
		if input.Email != "" {
			update["email"] = input.Email
		}
		if input.Phone != "" {
			update["phone"] = input.Phone
		}
		if _, err := users.UpdateByID(ctx, found.ID, bson.M{"$set": update}); err != nil {
			return nil, apperror.From(err, "Failed to update user")
		}
		user = found
		user.BusinessName = input.BusinessName
		user.VendorStatus = models.VendorPending
	} else {
		if len(strings.TrimSpace(input.Password)) < 6 {
			return nil, apperror.BadRequest("Password is required and must be at least 6 characters long when creating a new account")
		}

		created, err := s.RegisterCustomer(ctx, input.RegisterCustomerInput)
		if err != nil {
			return nil, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		_, err = users.UpdateByID(ctx, created.ID, bson.M{"$set": bson.M{
			"role":         models.RoleVendor,
			"businessName": input.BusinessName,
			"gstNumber":    input.GstNumber,
			"aadharNumber": input.AadharNumber,
			"panNumber":    input.PanNumber,
			"vendorStatus": models.VendorPending,
			"passwordHash": string(hash),
			"updatedAt":    now,
		}})
		if err != nil {
			return nil, apperror.From(err, "Failed to save vendor details")
		}
		created.Role = models.RoleVendor
		created.BusinessName = input.BusinessName
		created.VendorStatus = models.VendorPending
		user = created
	}

	verification := &models.VendorVerification{
		UserID:       user.ID,
		SubmittedAt:  now,
		Documents:    input.Documents,
		BusinessName: input.BusinessName,
		GstNumber:    input.GstNumber,
		AadharNumber: input.AadharNumber,
		PanNumber:    input.PanNumber,
		Status:       models.VerificationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.db.Collection(store.ColVendorVerifications).InsertOne(ctx, verification); err != nil {
		return nil, apperror.From(err, "Failed to file vendor application")
	}

	if user.Email != "" {
		if err := s.mailer.Send(user.Email, mail.VendorApplicationReceivedSubject(), mail.VendorApplicationReceivedBody(user.Name)); err != nil {
			s.log.Error("failed to send vendor application email", zap.Error(err))
		}
	}

	return user, nil
}

// Login authenticates by email or phone. Vendors must be active to log in.
func (s *AuthService) Login(ctx context.Context, input LoginInput, rc RequestContext) (*models.User, *TokenPair, error) {
	query := bson.M{"isDeleted": false}
	if strings.Contains(input.Identifier, "@") {
		query["email"] = input.Identifier
	} else {
		query["phone"] = input.Identifier
	}
	if input.Role != "" {
		query["role"] = input.Role
	}

	var user models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, query).Decode(&user)
	if err != nil || user.PasswordHash == "" {
		return nil, nil, apperror.Unauthorized("Invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, nil, apperror.Unauthorized("Invalid credentials")
	}

	if user.Role == models.RoleVendor && user.VendorStatus != models.VendorActive {
		return nil, nil, apperror.Newf(403, "Vendor account is %s. Please contact support.", user.VendorStatus)
	}

	tokens, err := s.openSession(ctx, &user, rc)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	_, _ = s.db.Collection(store.ColUsers).UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"lastLoginAt": now}})
	user.LastLoginAt = &now

	return &user, tokens, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, rc RequestContext) (*TokenPair, error) {
	now := time.Now()
	session := &models.Session{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Role:      user.Role,
		UserAgent: rc.UserAgent,
		IPAddress: rc.IPAddress,
		ExpiresAt: now.Add(s.cfg.JWT.RefreshExpiry),
		CreatedAt: now,
		UpdatedAt: now,
	}

	access, err := middleware.SignToken(user.ID, user.Role, session.ID.Hex(), s.cfg.JWT.AccessSecret, s.cfg.JWT.AccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := middleware.SignToken(user.ID, user.Role, session.ID.Hex(), s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	session.RefreshTokenHash = hashValue(refresh)
	if _, err := s.db.Collection(store.ColSessions).InsertOne(ctx, session); err != nil {
		return nil, apperror.From(err, "Failed to open session")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a refresh token, rejecting reuse of superseded tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, rc RequestContext) (*models.User, *TokenPair, error) {
	claims, err := middleware.ParseToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, nil, apperror.Unauthorized("Invalid refresh token")
	}
	sessionID, err := primitive.ObjectIDFromHex(claims.SessionID)
	if err != nil {
		return nil, nil, apperror.Unauthorized("Invalid session")
	}

	sessions := s.db.Collection(store.ColSessions)
	var session models.Session
	if err := sessions.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session); err != nil {
		return nil, nil, apperror.Unauthorized("Session not found")
	}

	if hashValue(refreshToken) != session.RefreshTokenHash {
		return nil, nil, apperror.Unauthorized("Refresh token mismatch")
	}
	if time.Now().After(session.ExpiresAt) {
		_, _ = sessions.DeleteOne(ctx, bson.M{"_id": session.ID})
		return nil, nil, apperror.Unauthorized("Session expired")
	}

	user, err := s.FindActive(ctx, session.User)
	if err != nil {
		return nil, nil, apperror.Unauthorized("User not found")
	}

	access, err := middleware.SignToken(user.ID, user.Role, session.ID.Hex(), s.cfg.JWT.AccessSecret, s.cfg.JWT.AccessExpiry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := middleware.SignToken(user.ID, user.Role, session.ID.Hex(), s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshExpiry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	update := bson.M{
		"refreshTokenHash": hashValue(refresh),
		"expiresAt":        time.Now().Add(s.cfg.JWT.RefreshExpiry),
		"updatedAt":        time.Now(),
	}
	if rc.UserAgent != "" {
		update["userAgent"] = rc.UserAgent
	}
	if rc.IPAddress != "" {
		update["ipAddress"] = rc.IPAddress
	}
	if _, err := sessions.UpdateByID(ctx, session.ID, bson.M{"$set": update}); err != nil {
		return nil, nil, apperror.From(err, "Failed to rotate session")
	}

	return user, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout drops the session behind a refresh token. Invalid tokens are a
// no-op so logout never fails for the client.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	claims, err := middleware.ParseToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(claims.SessionID)
	if err != nil {
		return
	}
	_, _ = s.db.Collection(store.ColSessions).DeleteOne(ctx, bson.M{"_id": sessionID})
}

// RequestPasswordReset always succeeds from the caller's point of view so it
// cannot be used to probe which emails exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	var user models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"email": email, "isDeleted": false}).Decode(&user)
	if err != nil {
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	now := time.Now()
	record := &models.PasswordResetToken{
		User:      user.ID,
		TokenHash: hashValue(rawToken),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.db.Collection(store.ColPasswordResetTokens).InsertOne(ctx, record); err != nil {
		return apperror.From(err, "Failed to create reset token")
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s&email=%s",
		s.cfg.App.FrontendURL, rawToken, url.QueryEscape(email))

	if err := s.mailer.Send(email, mail.PasswordResetSubject(), mail.PasswordResetBody(user.Name, resetURL)); err != nil {
		s.log.Error("failed to send password reset email", zap.Error(err))
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	var user models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"email": email, "isDeleted": false}).Decode(&user)
	if err != nil {
		return apperror.BadRequest("Invalid password reset request")
	}

	tokens := s.db.Collection(store.ColPasswordResetTokens)
	var record models.PasswordResetToken
	err = tokens.FindOne(ctx, bson.M{
		"user":      user.ID,
		"tokenHash": hashValue(token),
		"usedAt":    bson.M{"$exists": false},
		"expiresAt": bson.M{"$gt": time.Now()},
	}).Decode(&record)
	if err != nil {
		return apperror.BadRequest("Invalid or expired password reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	if _, err := s.db.Collection(store.ColUsers).UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"passwordHash": string(hash),
		"updatedAt":    now,
	}}); err != nil {
		return apperror.From(err, "Failed to update password")
	}
	_, _ = tokens.UpdateByID(ctx, record.ID, bson.M{"$set": bson.M{"usedAt": now, "updatedAt": now}})
	_, _ = s.db.Collection(store.ColSessions).DeleteMany(ctx, bson.M{"user": user.ID})
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	var user models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil || user.PasswordHash == "" {
		return apperror.NotFound("User not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return apperror.BadRequest("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.db.Collection(store.ColUsers).UpdateByID(ctx, userID, bson.M{"$set": bson.M{
		"passwordHash": string(hash),
		"updatedAt":    time.Now(),
	}}); err != nil {
		return apperror.From(err, "Failed to update password")
	}
	_, _ = s.db.Collection(store.ColSessions).DeleteMany(ctx, bson.M{"user": userID})
	return nil
}

// VendorApplicationStatus returns the latest verification filing for a user.
func (s *AuthService) VendorApplicationStatus(ctx context.Context, userID primitive.ObjectID) (*models.VendorVerification, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	var verification models.VendorVerification
	err := s.db.Collection(store.ColVendorVerifications).
		FindOne(ctx, bson.M{"userId": userID}, opts).
		Decode(&verification)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load vendor application")
	}
	return &verification, nil
}

func (s *AuthService) ApproveVendor(ctx context.Context, vendorID, adminID primitive.ObjectID) error {
	var user models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": vendorID}).Decode(&user)
	if err != nil {
		return apperror.NotFound("Vendor not found")
	}

	now := time.Now()
	if _, err := s.db.Collection(store.ColUsers).UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"role":         models.RoleVendor,
		"vendorStatus": models.VendorActive,
		"updatedAt":    now,
	}}); err != nil {
		return apperror.From(err, "Failed to approve vendor")
	}

	_, _ = s.db.Collection(store.ColVendorVerifications).UpdateOne(ctx,
		bson.M{"userId": user.ID},
		bson.M{"$set": bson.M{
			"status":     models.VerificationApproved,
			"reviewedBy": adminID,
			"reviewedAt": now,
			"updatedAt":  now,
		}},
	)

	if user.Email != "" {
		if err := s.mailer.Send(user.Email, mail.VendorApprovedSubject(), mail.VendorApprovedBody(user.Name)); err != nil {
			s.log.Error("failed to send vendor approval email", zap.Error(err))
		}
	}
	return nil
}

func (s *AuthService) RejectVendor(ctx context.Context, vendorID, adminID primitive.ObjectID, reason string) error {
	var user models.User
	err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": vendorID}).Decode(&user)
	if err != nil {
		return apperror.NotFound("Vendor not found")
	}

	now := time.Now()
	if _, err := s.db.Collection(store.ColUsers).UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"vendorStatus": models.VendorRejected,
		"updatedAt":    now,
	}}); err != nil {
		return apperror.From(err, "Failed to reject vendor")
	}

	_, _ = s.db.Collection(store.ColVendorVerifications).UpdateOne(ctx,
		bson.M{"userId": user.ID},
		bson.M{"$set": bson.M{
			"status":     models.VerificationRejected,
			"adminNotes": reason,
			"reviewedBy": adminID,
			"reviewedAt": now,
			"updatedAt":  now,
		}},
	)

	if user.Email != "" {
		if err := s.mailer.Send(user.Email, mail.VendorRejectedSubject(), mail.VendorRejectedBody(user.Name, reason)); err != nil {
			s.log.Error("failed to send vendor rejection email", zap.Error(err))
		}
	}
	return nil
}
