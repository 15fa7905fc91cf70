package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/mail"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

type ContactService struct {
	db     *store.Store
	mailer mail.Mailer
	log    *zap.Logger
}

func NewContactService(db *store.Store, mailer mail.Mailer, log *zap.Logger) *ContactService {
	return &ContactService{db: db, mailer: mailer, log: log}
}

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (s *ContactService) Create(ctx context.Context, input ContactInput, meta models.ContactMetadata) (*models.Contact, error) {
	now := time.Now()
	contact := &models.Contact{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		Status:    models.ContactNew,
		Metadata:  &meta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := s.db.Collection(store.ColContacts).InsertOne(ctx, contact)
	if err != nil {
		return nil, apperror.From(err, "Failed to submit inquiry")
	}
	contact.ID = res.InsertedID.(primitive.ObjectID)

	if err := s.mailer.Send(contact.Email, mail.ContactReceivedSubject(contact.Subject),
		mail.ContactReceivedBody(contact.Name, contact.Subject, contact.Message)); err != nil {
		s.log.Error("failed to send contact confirmation email", zap.Error(err))
	}
	return contact, nil
}

type ContactPage struct {
	Contacts []models.Contact `json:"contacts"`
	Total    int64            `json:"total"`
}

func (s *ContactService) List(ctx context.Context, status string, limit, skip int64) (*ContactPage, error) {
	query := bson.M{}
	if status != "" && status != "all" {
		if !models.ValidContactStatus(status) {
			return nil, apperror.BadRequest("Invalid contact status")
		}
		query["status"] = status
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	cursor, err := s.db.Collection(store.ColContacts).Find(ctx, query,
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit))
	if err != nil {
		return nil, apperror.From(err, "Failed to list contacts")
	}
	contacts := []models.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, apperror.From(err, "Failed to list contacts")
	}

	total, err := s.db.Collection(store.ColContacts).CountDocuments(ctx, query)
	if err != nil {
		return nil, apperror.From(err, "Failed to count contacts")
	}
	return &ContactPage{Contacts: contacts, Total: total}, nil
}

func (s *ContactService) GetByID(ctx context.Context, contactID primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.Collection(store.ColContacts).FindOne(ctx, bson.M{"_id": contactID}).Decode(&contact)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Contact query not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load contact")
	}
	return &contact, nil
}

type ContactUpdateInput struct {
	Status        *string `json:"status"`
	AdminResponse *string `json:"adminResponse"`
}

// Update changes an inquiry's status or records an admin response. Writing a
// response stamps the responder and moves the inquiry to replied unless a
// status was given explicitly.
func (s *ContactService) Update(ctx context.Context, contactID primitive.ObjectID, input ContactUpdateInput, adminID primitive.ObjectID) (*models.Contact, error) {
	set := bson.M{"updatedAt": time.Now()}

	if input.Status != nil {
		if !models.ValidContactStatus(*input.Status) {
			return nil, apperror.BadRequest("Invalid contact status")
		}
		set["status"] = *input.Status
	}
	if input.AdminResponse != nil {
		set["adminResponse"] = strings.TrimSpace(*input.AdminResponse)
		set["respondedBy"] = adminID
		set["respondedAt"] = time.Now()
		if input.Status == nil {
			set["status"] = models.ContactReplied
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var contact models.Contact
	err := s.db.Collection(store.ColContacts).
		FindOneAndUpdate(ctx, bson.M{"_id": contactID}, bson.M{"$set": set}, opts).
		Decode(&contact)
	if err != nil {
		return nil, apperror.NotFound("Contact query not found")
	}

	if input.AdminResponse != nil && contact.Email != "" {
		if err := s.mailer.Send(contact.Email, mail.ContactReplySubject(contact.Subject),
			mail.ContactReplyBody(contact.Name, contact.Subject, contact.Message, contact.AdminResponse)); err != nil {
			s.log.Error("failed to send contact response email", zap.Error(err))
		}
	}
	return &contact, nil
}

func (s *ContactService) Delete(ctx context.Context, contactID primitive.ObjectID) error {
	res, err := s.db.Collection(store.ColContacts).DeleteOne(ctx, bson.M{"_id": contactID})
	if err != nil {
		return apperror.From(err, "Failed to delete contact")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Contact query not found")
	}
	return nil
}
