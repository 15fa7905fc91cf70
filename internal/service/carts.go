package service

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/store"
)

type CartService struct {
	db *store.Store
}

func NewCartService(db *store.Store) *CartService {
	return &CartService{db: db}
}

type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1"`
}

// GetOrCreate returns the user's cart, creating an empty one on first touch.
func (s *CartService) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	carts := s.db.Collection(store.ColCarts)

	var cart models.Cart
	err := carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, apperror.From(err, "Failed to load cart")
	}

	now := time.Now()
	cart = models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := carts.InsertOne(ctx, &cart)
	if err != nil {
		return nil, apperror.From(err, "Failed to create cart")
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return &cart, nil
}

// AddItem validates the product then merges the quantity into the cart,
// snapshotting the title and price at add-time.
func (s *CartService) AddItem(ctx context.Context, userID primitive.ObjectID, input CartItemInput) (*models.Cart, error) {
	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid product ID")
	}

	var product models.Product
	if err := s.db.Collection(store.ColProducts).FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		return nil, apperror.NotFound("Product not found")
	}
	if !product.IsActive {
		return nil, apperror.BadRequest("Product is not available")
	}
	if product.Stock < input.Qty {
		return nil, apperror.BadRequest("Insufficient stock available")
	}
	if input.Qty < product.MinOrderQty {
		return nil, apperror.Newf(400, "Minimum order quantity is %d", product.MinOrderQty)
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Qty += input.Qty
			if product.Stock < cart.Items[i].Qty {
				return nil, apperror.BadRequest("Insufficient stock available")
			}
			merged = true
			break
		}
	}
	if !merged {
		meta := map[string]interface{}{"slug": product.Slug}
		if len(product.Images) > 0 {
			meta["image"] = product.Images[0].URL
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID:    productID,
			Title:        product.Title,
			VendorID:     product.Vendor,
			PricePerUnit: product.Price,
			Qty:          input.Qty,
			MinOrderQty:  product.MinOrderQty,
			Meta:         meta,
		})
	}

	return s.saveItems(ctx, cart)
}

// UpdateItem replaces the quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, userID primitive.ObjectID, input CartItemInput) (*models.Cart, error) {
	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid product ID")
	}
	if input.Qty < 1 {
		return nil, apperror.BadRequest("Quantity must be at least 1")
	}

	var product models.Product
	if err := s.db.Collection(store.ColProducts).FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		return nil, apperror.NotFound("Product not found")
	}
	if input.Qty < product.MinOrderQty {
		return nil, apperror.Newf(400, "Minimum order quantity is %d", product.MinOrderQty)
	}
	if product.Stock < input.Qty {
		return nil, apperror.BadRequest("Insufficient stock available")
	}

	cart, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Qty = input.Qty
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NotFound("Item not found in cart")
	}

	return s.saveItems(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID primitive.ObjectID, productIDHex string) (*models.Cart, error) {
	productID, err := primitive.ObjectIDFromHex(productIDHex)
	if err != nil {
		return nil, apperror.BadRequest("Invalid product ID")
	}

	cart, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	return s.saveItems(ctx, cart)
}

// Clear empties the cart. Missing carts are not an error.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.find(ctx, userID)
	if err != nil {
		if apperror.StatusOf(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return s.saveItems(ctx, cart)
}

func (s *CartService) find(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Collection(store.ColCarts).FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Cart not found")
	}
	if err != nil {
		return nil, apperror.From(err, "Failed to load cart")
	}
	return &cart, nil
}

func (s *CartService) saveItems(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.UpdatedAt = time.Now()
	_, err := s.db.Collection(store.ColCarts).UpdateByID(ctx, cart.ID, bson.M{"$set": bson.M{
		"items":     cart.Items,
		"updatedAt": cart.UpdatedAt,
	}})
	if err != nil {
		return nil, apperror.From(err, "Failed to save cart")
	}
	return cart, nil
}
