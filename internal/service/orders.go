package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/config"
	"bazaarwale-backend/internal/mail"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/payment"
	"bazaarwale-backend/internal/store"
)

const defaultTaxPercentage = 18.0

type OrderService struct {
	db       *store.Store
	cfg      *config.Config
	log      *zap.Logger
	gateway  payment.Gateway
	mailer   mail.Mailer
	products *ProductService
	settings *SettingsService
}

func NewOrderService(db *store.Store, cfg *config.Config, log *zap.Logger, gateway payment.Gateway, mailer mail.Mailer, products *ProductService, settings *SettingsService) *OrderService {
	return &OrderService{
		db:       db,
		cfg:      cfg,
		log:      log,
		gateway:  gateway,
		mailer:   mailer,
		products: products,
		settings: settings,
	}
}

type CreateOrderInput struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	RazorpayOrderID string                 `json:"razorpayOrderId"`
}

type VerifyPaymentInput struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// OrderCalculation is a priced cart: per-item totals and taxes plus the
// order-level sums the client is shown before paying.
type OrderCalculation struct {
	Subtotal     float64            `json:"subtotal"`
	ShippingCost float64            `json:"shippingCost"`
	Tax          float64            `json:"tax"`
	Total        float64            `json:"total"`
	Items        []models.OrderItem `json:"items"`
}

// Calculate prices the user's cart server-side. Client-sent totals are never
// trusted.
func (s *OrderService) Calculate(ctx context.Context, userID primitive.ObjectID) (*OrderCalculation, error) {
	var cart models.Cart
	err := s.db.Collection(store.ColCarts).FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil || len(cart.Items) == 0 {
		return nil, apperror.BadRequest("Cart is empty")
	}

	calc := &OrderCalculation{Items: make([]models.OrderItem, 0, len(cart.Items))}

	for _, cartItem := range cart.Items {
		var product models.Product
		err := s.db.Collection(store.ColProducts).FindOne(ctx, bson.M{"_id": cartItem.ProductID}).Decode(&product)
		if err != nil {
			return nil, apperror.Newf(404, "Product not found for item: %s", cartItem.Title)
		}
		if !product.IsActive {
			return nil, apperror.Newf(400, "Product %q is not available", product.Title)
		}
		if product.Stock < cartItem.Qty {
			return nil, apperror.Newf(400, "Insufficient stock for %q. Available: %d, Requested: %d",
				product.Title, product.Stock, cartItem.Qty)
		}

		var vendor models.User
		if err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": cartItem.VendorID}).Decode(&vendor); err != nil {
			return nil, apperror.Newf(404, "Vendor not found for product: %s", product.Title)
		}

		itemTotal := cartItem.PricePerUnit * float64(cartItem.Qty)
		calc.Subtotal += itemTotal

		taxPct := product.TaxPercentage
		if taxPct == 0 {
			taxPct = defaultTaxPercentage
		}
		taxCode := product.TaxCode
		if taxCode == "" {
			taxCode = "GST"
		}
		taxAmount := models.PercentOf(itemTotal, taxPct)
		calc.Tax += taxAmount

		calc.Items = append(calc.Items, models.OrderItem{
			ProductID:     cartItem.ProductID,
			Title:         cartItem.Title,
			SKU:           product.SKU,
			VendorID:      cartItem.VendorID,
			VendorName:    vendor.DisplayName(),
			VendorPhone:   vendor.Phone,
			Qty:           cartItem.Qty,
			PricePerUnit:  cartItem.PricePerUnit,
			TotalPrice:    itemTotal,
			TaxCode:       taxCode,
			TaxPercentage: taxPct,
			TaxAmount:     taxAmount,
		})
	}

	shipping, err := s.settings.ShippingConfig(ctx)
	if err != nil {
		return nil, err
	}
	calc.ShippingCost = shipping.ShippingCostFor(calc.Subtotal)
	calc.Total = calc.Subtotal + calc.ShippingCost + calc.Tax

	return calc, nil
}

// generateOrderNumber builds ORD-YYYYMMDD-XXXX, retrying on the rare random
// collision.
func (s *OrderService) generateOrderNumber(ctx context.Context) (string, error) {
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", fmt.Errorf("failed to generate order number: %w", err)
		}
		orderNumber := fmt.Sprintf("ORD-%s-%04d", time.Now().UTC().Format("20060102"), n.Int64())

		count, err := s.db.Collection(store.ColOrders).CountDocuments(ctx, bson.M{"orderNumber": orderNumber})
		if err != nil {
			return "", apperror.From(err, "Failed to check order number")
		}
		if count == 0 {
			return orderNumber, nil
		}
	}
}

// Create prices the cart, opens a gateway order for the total, persists the
// order in created/pending state and clears the cart.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, input CreateOrderInput) (*models.Order, *payment.GatewayOrder, error) {
	calc, err := s.Calculate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	orderNumber, err := s.generateOrderNumber(ctx)
	if err != nil {
		return nil, nil, err
	}

	var gatewayOrder *payment.GatewayOrder
	razorpayOrderID := input.RazorpayOrderID
	if razorpayOrderID == "" {
		gatewayOrder, err = s.gateway.CreateOrder(ctx, payment.CreateOrderOptions{
			Amount:   models.ToPaise(calc.Total),
			Currency: "INR",
			Receipt:  orderNumber,
			Notes: map[string]string{
				"userId":      userID.Hex(),
				"orderNumber": orderNumber,
			},
		})
		if err != nil {
			return nil, nil, err
		}
		razorpayOrderID = gatewayOrder.ID
	} else {
		existing, err := s.gateway.FetchOrder(ctx, razorpayOrderID)
		if err != nil {
			return nil, nil, err
		}
		if existing.Amount != models.ToPaise(calc.Total) {
			return nil, nil, apperror.BadRequest("Razorpay order amount does not match calculated order total")
		}
	}

	if math.Abs(calc.Subtotal+calc.ShippingCost+calc.Tax-calc.Total) > 0.01 {
		return nil, nil, apperror.Internal("Order calculation error - totals do not match")
	}
	var itemTaxSum float64
	for _, item := range calc.Items {
		itemTaxSum += item.TaxAmount
	}
	if math.Abs(itemTaxSum-calc.Tax) > 0.01 {
		return nil, nil, apperror.Internal("Tax calculation error - item taxes do not match total tax")
	}

	now := time.Now()
	expectedDelivery := now.AddDate(0, 0, 7)
	order := &models.Order{
		OrderNumber:          orderNumber,
		UserID:               userID,
		Items:                calc.Items,
		Subtotal:             calc.Subtotal,
		ShippingCost:         calc.ShippingCost,
		Tax:                  calc.Tax,
		Total:                calc.Total,
		PaymentStatus:        models.PaymentPending,
		PaymentMethod:        "razorpay",
		RazorpayOrderID:      razorpayOrderID,
		Status:               models.OrderCreated,
		ShippingAddress:      input.ShippingAddress,
		ExpectedDeliveryDate: &expectedDelivery,
		PlacedAt:             now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	res, err := s.db.Collection(store.ColOrders).InsertOne(ctx, order)
	if err != nil {
		return nil, nil, apperror.From(err, "Failed to create order")
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	_, _ = s.db.Collection(store.ColCarts).UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": now}},
	)

	return order, gatewayOrder, nil
}

// captureGuard gates the one-time pending to paid transition. A replay
// against an already-paid order is reported separately so callers can ack it
// without re-running stock decrement or confirmation mail.
func captureGuard(status models.PaymentStatus) (alreadyPaid bool, err error) {
	switch status {
	case models.PaymentPending:
		return false, nil
	case models.PaymentPaid:
		return true, nil
	default:
		return false, apperror.Conflict("Order payment is " + string(status))
	}
}

// VerifyPayment checks the checkout callback signature and the captured
// amount against the order, then marks the order paid and hands it to the
// vendors. Calling it again after capture returns the order unchanged.
func (s *OrderService) VerifyPayment(ctx context.Context, userID, orderID primitive.ObjectID, input VerifyPaymentInput) (*models.Order, error) {
	orders := s.db.Collection(store.ColOrders)

	var order models.Order
	err := orders.FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order)
	if err != nil {
		return nil, apperror.NotFound("Order not found")
	}

	if order.RazorpayOrderID != input.RazorpayOrderID {
		return nil, apperror.BadRequest("Razorpay order ID mismatch")
	}

	alreadyPaid, err := captureGuard(order.PaymentStatus)
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return &order, nil
	}

	if !payment.VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature, s.cfg.Razorpay.KeySecret) {
		return nil, apperror.BadRequest("Invalid payment signature")
	}

	details, err := s.gateway.FetchPayment(ctx, input.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	if details.Amount != models.ToPaise(order.Total) {
		return nil, apperror.BadRequest("Payment amount mismatch")
	}
	if details.Status != "captured" && details.Status != "authorized" {
		return nil, apperror.Newf(400, "Payment not successful. Status: %s", details.Status)
	}

	now := time.Now()
	set := bson.M{
		"paymentStatus":     models.PaymentPaid,
		"razorpayPaymentId": input.RazorpayPaymentID,
		"updatedAt":         now,
	}
	if order.Status == models.OrderCreated {
		set["status"] = models.OrderVendorShippedToWarehouse
		order.Status = models.OrderVendorShippedToWarehouse
	}
	if _, err := orders.UpdateByID(ctx, order.ID, bson.M{"$set": set}); err != nil {
		return nil, apperror.From(err, "Failed to record payment")
	}
	order.PaymentStatus = models.PaymentPaid
	order.RazorpayPaymentID = input.RazorpayPaymentID

	s.products.DecrementStock(ctx, order.Items)

	go s.sendOrderConfirmationEmails(context.Background(), &order)

	return &order, nil
}

func (s *OrderService) sendOrderConfirmationEmails(ctx context.Context, order *models.Order) {
	var customer models.User
	if err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&customer); err != nil {
		s.log.Error("customer not found for order confirmation",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return
	}

	if customer.Email != "" {
		if err := s.mailer.Send(customer.Email,
			mail.OrderConfirmationSubject(order.OrderNumber),
			mail.OrderConfirmationBody(order, customer.Name)); err != nil {
			s.log.Error("failed to send customer order email", zap.Error(err))
		}
	}

	byVendor := map[primitive.ObjectID][]models.OrderItem{}
	for _, item := range order.Items {
		byVendor[item.VendorID] = append(byVendor[item.VendorID], item)
	}

	for vendorID, items := range byVendor {
		var vendor models.User
		if err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": vendorID}).Decode(&vendor); err != nil || vendor.Email == "" {
			continue
		}
		if err := s.mailer.Send(vendor.Email,
			mail.VendorOrderSubject(order.OrderNumber),
			mail.VendorOrderBody(order, vendor.DisplayName(), items)); err != nil {
			s.log.Error("failed to send vendor order email",
				zap.String("vendorId", vendorID.Hex()), zap.Error(err))
		}
	}
}

// HandleWebhook processes gateway payment events. Errors are logged, never
// returned, so the webhook is always acknowledged.
func (s *OrderService) HandleWebhook(ctx context.Context, body []byte) {
	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to decode webhook payload", zap.Error(err))
		return
	}

	orders := s.db.Collection(store.ColOrders)

	switch event.Event {
	case "payment.captured":
		var order models.Order
		err := orders.FindOne(ctx, bson.M{"razorpayOrderId": event.Payload.Payment.Entity.OrderID}).Decode(&order)
		if err != nil || order.PaymentStatus != models.PaymentPending {
			return
		}
		set := bson.M{
			"paymentStatus":     models.PaymentPaid,
			"razorpayPaymentId": event.Payload.Payment.Entity.ID,
			"updatedAt":         time.Now(),
		}
		if order.Status == models.OrderCreated {
			set["status"] = models.OrderVendorShippedToWarehouse
		}
		if _, err := orders.UpdateByID(ctx, order.ID, bson.M{"$set": set}); err != nil {
			s.log.Error("failed to record captured payment", zap.Error(err))
			return
		}
		s.products.DecrementStock(ctx, order.Items)
	case "payment.failed":
		_, err := orders.UpdateOne(ctx,
			bson.M{"razorpayOrderId": event.Payload.Payment.Entity.OrderID},
			bson.M{"$set": bson.M{"paymentStatus": models.PaymentFailed, "updatedAt": time.Now()}},
		)
		if err != nil {
			s.log.Error("failed to record failed payment", zap.Error(err))
		}
	}
}

func (s *OrderService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := s.db.Collection(store.ColOrders).Find(ctx,
		bson.M{"userId": userID, "isDeleted": false},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperror.From(err, "Failed to list orders")
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperror.From(err, "Failed to list orders")
	}
	return orders, nil
}

func (s *OrderService) GetForUser(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.db.Collection(store.ColOrders).
		FindOne(ctx, bson.M{"_id": orderID, "userId": userID, "isDeleted": false}).
		Decode(&order)
	if err != nil {
		return nil, apperror.NotFound("Order not found")
	}
	return &order, nil
}

// VendorOrderView is an order reduced to one vendor's items with totals
// recomputed over that slice. Customer identity is withheld.
type VendorOrderView struct {
	ID            primitive.ObjectID   `json:"id"`
	OrderNumber   string               `json:"orderNumber"`
	Items         []models.OrderItem   `json:"items"`
	Subtotal      float64              `json:"subtotal"`
	Tax           float64              `json:"tax"`
	Total         float64              `json:"total"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Status        models.OrderStatus   `json:"status"`
	PlacedAt      time.Time            `json:"placedAt"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (s *OrderService) ListForVendor(ctx context.Context, vendorID primitive.ObjectID) ([]VendorOrderView, error) {
	cursor, err := s.db.Collection(store.ColOrders).Find(ctx,
		bson.M{"items.vendorId": vendorID, "isDeleted": false},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperror.From(err, "Failed to list vendor orders")
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperror.From(err, "Failed to list vendor orders")
	}

	views := []VendorOrderView{}
	for _, order := range orders {
		items := order.VendorItems(vendorID)
		if len(items) == 0 {
			continue
		}
		var subtotal, tax float64
		for _, item := range items {
			subtotal += item.TotalPrice
			tax += item.TaxAmount
		}
		views = append(views, VendorOrderView{
			ID:            order.ID,
			OrderNumber:   order.OrderNumber,
			Items:         items,
			Subtotal:      subtotal,
			Tax:           tax,
			Total:         subtotal + tax,
			PaymentStatus: order.PaymentStatus,
			Status:        order.Status,
			PlacedAt:      order.PlacedAt,
			CreatedAt:     order.CreatedAt,
			UpdatedAt:     order.UpdatedAt,
		})
	}
	return views, nil
}

type AdminOrderFilter struct {
	AdminOnly bool
	Status    string
	Search    string
}

// AdminOrderView decorates an order with the customer contact and the
// vendors involved.
type AdminOrderView struct {
	models.Order
	Customer *CustomerSummary `json:"customer"`
	Vendors  []VendorSummary  `json:"vendors"`
}

type CustomerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type VendorSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	BusinessName string             `json:"businessName,omitempty"`
	GstNumber    string             `json:"gstNumber,omitempty"`
	Role         models.UserRole    `json:"role"`
}

func (s *OrderService) ListForAdmin(ctx context.Context, filter AdminOrderFilter) ([]AdminOrderView, error) {
	query := bson.M{"isDeleted": false}

	if filter.AdminOnly {
		adminIDs, err := s.findUserIDs(ctx, bson.M{"role": models.RoleAdmin})
		if err != nil {
			return nil, err
		}
		query["items.vendorId"] = bson.M{"$in": adminIDs}
	}

	if filter.Status != "" && filter.Status != "all" && models.ValidOrderStatus(filter.Status) {
		query["status"] = filter.Status
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}

		or := []bson.M{{"orderNumber": pattern}}

		vendorIDs, err := s.findUserIDs(ctx, bson.M{"$or": []bson.M{
			{"name": pattern},
			{"businessName": pattern},
			{"gstNumber": pattern},
		}})
		if err != nil {
			return nil, err
		}
		if len(vendorIDs) > 0 {
			or = append(or, bson.M{"items.vendorId": bson.M{"$in": vendorIDs}})
		}

		cursor, err := s.db.Collection(store.ColProducts).Find(ctx,
			bson.M{"title": pattern}, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, apperror.From(err, "Failed to search products")
		}
		var matched []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.All(ctx, &matched); err != nil {
			return nil, apperror.From(err, "Failed to search products")
		}
		if len(matched) > 0 {
			ids := make([]primitive.ObjectID, len(matched))
			for i, m := range matched {
				ids[i] = m.ID
			}
			or = append(or, bson.M{"items.productId": bson.M{"$in": ids}})
		}

		query["$or"] = or
	}

	cursor, err := s.db.Collection(store.ColOrders).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperror.From(err, "Failed to list orders")
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperror.From(err, "Failed to list orders")
	}

	views := make([]AdminOrderView, 0, len(orders))
	for _, order := range orders {
		view, err := s.decorateAdminOrder(ctx, order)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *OrderService) GetForAdmin(ctx context.Context, orderID primitive.ObjectID) (*AdminOrderView, error) {
	var order models.Order
	err := s.db.Collection(store.ColOrders).
		FindOne(ctx, bson.M{"_id": orderID, "isDeleted": false}).
		Decode(&order)
	if err != nil {
		return nil, apperror.NotFound("Order not found")
	}
	return s.decorateAdminOrder(ctx, order)
}

func (s *OrderService) decorateAdminOrder(ctx context.Context, order models.Order) (*AdminOrderView, error) {
	view := &AdminOrderView{Order: order, Vendors: []VendorSummary{}}

	var customer models.User
	if err := s.db.Collection(store.ColUsers).FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&customer); err == nil {
		view.Customer = &CustomerSummary{Name: customer.Name, Email: customer.Email, Phone: customer.Phone}
	}

	seen := map[primitive.ObjectID]bool{}
	var vendorIDs []primitive.ObjectID
	for _, item := range order.Items {
		if !seen[item.VendorID] {
			seen[item.VendorID] = true
			vendorIDs = append(vendorIDs, item.VendorID)
		}
	}
	if len(vendorIDs) == 0 {
		return view, nil
	}

	cursor, err := s.db.Collection(store.ColUsers).Find(ctx, bson.M{"_id": bson.M{"$in": vendorIDs}})
	if err != nil {
		return nil, apperror.From(err, "Failed to load order vendors")
	}
	var vendors []models.User
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, apperror.From(err, "Failed to load order vendors")
	}
	for _, vendor := range vendors {
		view.Vendors = append(view.Vendors, VendorSummary{
			ID:           vendor.ID,
			Name:         vendor.Name,
			Email:        vendor.Email,
			Phone:        vendor.Phone,
			BusinessName: vendor.BusinessName,
			GstNumber:    vendor.GstNumber,
			Role:         vendor.Role,
		})
	}
	return view, nil
}

func (s *OrderService) findUserIDs(ctx context.Context, query bson.M) ([]primitive.ObjectID, error) {
	cursor, err := s.db.Collection(store.ColUsers).Find(ctx, query,
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, apperror.From(err, "Failed to search users")
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperror.From(err, "Failed to search users")
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

// UpdateStatus moves an order along the fulfillment state machine with role
// guards. Vendors may only hand their orders to the warehouse or cancel
// freshly created ones; admins drive the rest of the pipeline.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string, updatedBy primitive.ObjectID, role models.UserRole) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, apperror.BadRequest("Invalid order status")
	}
	next := models.OrderStatus(newStatus)

	orders := s.db.Collection(store.ColOrders)
	var order models.Order
	if err := orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return nil, apperror.NotFound("Order not found")
	}

	set := bson.M{"status": next, "updatedAt": time.Now()}

	switch role {
	case models.RoleVendor:
		if next != models.OrderVendorShippedToWarehouse && next != models.OrderCancelled {
			return nil, apperror.Forbidden("Vendors can only mark orders as shipped to warehouse or cancel them")
		}
		if !order.HasVendorItems(updatedBy) {
			return nil, apperror.Forbidden("You can only update orders containing your products")
		}
		if next == models.OrderCancelled && order.Status != models.OrderCreated {
			return nil, apperror.BadRequest("Can only cancel orders that are still in created status")
		}
		if next == models.OrderVendorShippedToWarehouse {
			expected := time.Now().AddDate(0, 0, 7)
			set["expectedDeliveryDate"] = expected
			order.ExpectedDeliveryDate = &expected
		}
	case models.RoleAdmin:
		if next == models.OrderVendorShippedToWarehouse {
			return nil, apperror.Forbidden("Only vendors can mark orders as shipped to warehouse")
		}
		if next == models.OrderShipped {
			shipped := time.Now()
			set["shippedDate"] = shipped
			order.ShippedDate = &shipped
		}
	default:
		return nil, apperror.Forbidden("Insufficient permissions")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apperror.Newf(400, "Cannot move order from %s to %s", order.Status, next)
	}

	if _, err := orders.UpdateByID(ctx, order.ID, bson.M{"$set": set}); err != nil {
		return nil, apperror.From(err, "Failed to update order status")
	}
	order.Status = next
	return &order, nil
}

// UpdateExpectedDelivery sets the promised delivery date. Admin only.
func (s *OrderService) UpdateExpectedDelivery(ctx context.Context, orderID primitive.ObjectID, expected time.Time) (*models.Order, error) {
	orders := s.db.Collection(store.ColOrders)
	var order models.Order
	if err := orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return nil, apperror.NotFound("Order not found")
	}
	if _, err := orders.UpdateByID(ctx, order.ID, bson.M{"$set": bson.M{
		"expectedDeliveryDate": expected,
		"updatedAt":            time.Now(),
	}}); err != nil {
		return nil, apperror.From(err, "Failed to update delivery date")
	}
	order.ExpectedDeliveryDate = &expected
	return &order, nil
}
