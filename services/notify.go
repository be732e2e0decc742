// services/notify.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"bayorder-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// OrderNotifier pings the kitchen/bar staff phone when a new order
// lands, so orders placed during quiet hours are not missed on the
// dashboard. Failures are logged and never surfaced to the customer.
type OrderNotifier struct {
	client     *twilio.RestClient
	staffPhone string
	enabled    bool
}

func NewOrderNotifierFromEnv() *OrderNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	staffPhone := os.Getenv("STAFF_PHONE")

	if accountSid == "" || authToken == "" || staffPhone == "" {
		return &OrderNotifier{enabled: false}
	}

	return &OrderNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		staffPhone: staffPhone,
		enabled:    true,
	}
}

func (n *OrderNotifier) NotifyNewOrder(order *models.Order) {
	if !n.enabled {
		return
	}

	message := buildOrderMessage(order)

	// WhatsApp if the staff number is in E.164 format, else SMS.
	channel := "sms"
	to := n.staffPhone
	if strings.HasPrefix(n.staffPhone, "+") {
		to = "whatsapp:" + n.staffPhone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send order notification: %v", err)
		return
	}
	if resp.Sid != nil {
		log.Printf("Order notification sent, SID: %s", *resp.Sid)
	}
}

func buildOrderMessage(order *models.Order) string {
	label := "Room Service"
	if order.MenuType == models.MenuTypeBeachDrinks {
		label = "Beach Drinks"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New %s order from %s (%s)\n", label, order.CustomerName, order.Location)
	for _, line := range order.Items {
		fmt.Fprintf(&b, "%dx %s", line.Quantity, line.ItemName)
		if len(line.Modifiers) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(line.Modifiers, ", "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total: $%.2f", order.Total())
	return b.String()
}
