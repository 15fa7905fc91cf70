package mail

import (
	"fmt"
	"html"
	"strings"
	"time"

	"bazaarwale-backend/internal/models"
)

func PasswordResetSubject() string { return "Reset Your Password - BazaarWale" }

func PasswordResetBody(name, resetURL string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1 style="color: #667eea;">Reset Your Password</h1>
  <p>Hi %s,</p>
  <p>We received a request to reset your password. Click the button below to create a new password. This link will expire in 1 hour.</p>
  <p><a href="%s" style="display: inline-block; background: #667eea; color: #ffffff; text-decoration: none; padding: 14px 36px; border-radius: 8px;">Reset Password</a></p>
  <p style="color: #999;">If the button doesn't work, copy and paste this link into your browser:</p>
  <p style="color: #667eea; word-break: break-all;">%s</p>
  <p style="color: #856404; background: #fff3cd; padding: 12px; border-left: 4px solid #ffc107;"><strong>Security Tip:</strong> If you didn't request this password reset, please ignore this email. Your password will remain unchanged.</p>
  <p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply to this message.</p>
  <p style="color: #ccc; font-size: 12px;">&copy; %d BazaarWale. All rights reserved.</p>
</body>
</html>`, html.EscapeString(name), resetURL, resetURL, time.Now().Year())
}

func VendorApplicationReceivedSubject() string { return "Vendor application received" }

func VendorApplicationReceivedBody(name string) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>We have received your vendor application. Our team will review it and notify you once it is approved.</p>",
		html.EscapeString(name))
}

func VendorApprovedSubject() string { return "Vendor application approved" }

func VendorApprovedBody(name string) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>Your vendor account has been approved. You can now log in and start managing your products.</p>",
		html.EscapeString(name))
}

func VendorRejectedSubject() string { return "Vendor application rejected" }

func VendorRejectedBody(name, reason string) string {
	suffix := ""
	if reason != "" {
		suffix = " Reason: " + html.EscapeString(reason)
	}
	return fmt.Sprintf("<p>Hi %s,</p><p>We are unable to approve your vendor application at this time.%s</p>",
		html.EscapeString(name), suffix)
}

func OrderConfirmationSubject(orderNumber string) string {
	return "Order Confirmation - " + orderNumber
}

// OrderConfirmationBody is the customer copy of a placed order.
func OrderConfirmationBody(order *models.Order, customerName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body style="font-family: Arial, sans-serif; color: #333;">`)
	fmt.Fprintf(&b, `<h1 style="color: #667eea;">Thank you for your order!</h1>`)
	fmt.Fprintf(&b, `<p>Hi %s,</p>`, html.EscapeString(customerName))
	fmt.Fprintf(&b, `<p>Your order <strong>%s</strong> has been placed successfully.</p>`, html.EscapeString(order.OrderNumber))
	b.WriteString(itemsTable(order.Items))
	fmt.Fprintf(&b, `<p>Subtotal: ₹%.2f<br>Shipping: ₹%.2f<br>Tax: ₹%.2f<br><strong>Total: ₹%.2f</strong></p>`,
		order.Subtotal, order.ShippingCost, order.Tax, order.Total)
	fmt.Fprintf(&b, `<p>Shipping to: %s</p>`, html.EscapeString(shippingLine(order.ShippingAddress)))
	fmt.Fprintf(&b, `<p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply to this message.</p>`)
	fmt.Fprintf(&b, `</body></html>`)
	return b.String()
}

func VendorOrderSubject(orderNumber string) string {
	return "New Order Received - " + orderNumber
}

// VendorOrderBody notifies a vendor about the subset of items they fulfil.
func VendorOrderBody(order *models.Order, vendorName string, items []models.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body style="font-family: Arial, sans-serif; color: #333;">`)
	fmt.Fprintf(&b, `<h1 style="color: #667eea;">New order received</h1>`)
	fmt.Fprintf(&b, `<p>Hi %s,</p>`, html.EscapeString(vendorName))
	fmt.Fprintf(&b, `<p>You have new items to fulfil in order <strong>%s</strong>.</p>`, html.EscapeString(order.OrderNumber))
	b.WriteString(itemsTable(items))
	fmt.Fprintf(&b, `<p>Please ship the items to the warehouse as soon as possible.</p>`)
	fmt.Fprintf(&b, `</body></html>`)
	return b.String()
}

func ContactReceivedSubject(subject string) string {
	return "Thank you for contacting us - " + subject
}

// ContactReceivedBody confirms an inquiry to the sender.
func ContactReceivedBody(name, subject, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body style="font-family: Arial, sans-serif; color: #333;">`)
	fmt.Fprintf(&b, `<h1 style="color: #667eea;">Thank You for Contacting Us</h1>`)
	fmt.Fprintf(&b, `<p>Dear %s,</p>`, html.EscapeString(name))
	fmt.Fprintf(&b, `<p>We have received your inquiry and our team will get back to you soon.</p>`)
	fmt.Fprintf(&b, `<div style="background: #fff; padding: 20px; border-left: 4px solid #667eea;"><p><strong>Subject:</strong> %s</p><p><strong>Your Message:</strong></p><p>%s</p></div>`,
		html.EscapeString(subject), multiline(message))
	fmt.Fprintf(&b, `<p>We typically respond within 24-48 hours. If your inquiry is urgent, please call us directly.</p>`)
	fmt.Fprintf(&b, `<p style="color: #999; font-size: 12px;">This is an automated confirmation email. Please do not reply to this message.</p>`)
	fmt.Fprintf(&b, `</body></html>`)
	return b.String()
}

func ContactReplySubject(subject string) string { return "Re: " + subject }

// ContactReplyBody carries the admin response with the original message quoted.
func ContactReplyBody(name, subject, message, response string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body style="font-family: Arial, sans-serif; color: #333;">`)
	fmt.Fprintf(&b, `<h1 style="color: #667eea;">Response to Your Inquiry</h1>`)
	fmt.Fprintf(&b, `<p>Dear %s,</p>`, html.EscapeString(name))
	fmt.Fprintf(&b, `<p>Thank you for contacting us. Here is our response to your inquiry:</p>`)
	fmt.Fprintf(&b, `<div style="background: #fff; padding: 20px; border-left: 4px solid #10b981;"><p>%s</p></div>`, multiline(response))
	fmt.Fprintf(&b, `<div style="background: #f3f4f6; padding: 15px;"><p><strong>Your Original Message:</strong></p><p><strong>Subject:</strong> %s</p><p>%s</p></div>`,
		html.EscapeString(subject), multiline(message))
	fmt.Fprintf(&b, `<p>If you have any further questions, please don't hesitate to contact us again.</p>`)
	fmt.Fprintf(&b, `<p style="color: #999; font-size: 12px;">This is an automated response email. Please do not reply to this message.</p>`)
	fmt.Fprintf(&b, `</body></html>`)
	return b.String()
}

func multiline(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

func itemsTable(items []models.OrderItem) string {
	var b strings.Builder
	b.WriteString(`<table style="width: 100%; border-collapse: collapse;" border="1" cellpadding="8">`)
	b.WriteString(`<tr style="background: #f8f9fa;"><th align="left">Item</th><th align="right">Qty</th><th align="right">Price</th><th align="right">Total</th></tr>`)
	for _, item := range items {
		fmt.Fprintf(&b, `<tr><td>%s</td><td align="right">%d</td><td align="right">₹%.2f</td><td align="right">₹%.2f</td></tr>`,
			html.EscapeString(item.Title), item.Qty, item.PricePerUnit, item.TotalPrice)
	}
	b.WriteString(`</table>`)
	return b.String()
}

func shippingLine(addr models.ShippingAddress) string {
	parts := []string{addr.Line1}
	if addr.Line2 != "" {
		parts = append(parts, addr.Line2)
	}
	parts = append(parts, addr.City, addr.State, addr.PostalCode)
	return strings.Join(parts, ", ")
}
