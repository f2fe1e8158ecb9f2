package email

import "fmt"

// WelcomeEmail greets a newly registered user.
func WelcomeEmail(to, role string) *Message {
	return &Message{
		To:      to,
		Subject: "Welcome to DispatchHub",
		Body: fmt.Sprintf(
			"Your account has been created with the %s role.\n\n"+
				"Log in to start working with the job board.\n", role),
	}
}

// PaymentReceipt confirms a settled checkout.
func PaymentReceipt(to, planName string, amount float64, currency string) *Message {
	return &Message{
		To:      to,
		Subject: "Payment received",
		Body: fmt.Sprintf(
			"We received your payment of %.2f %s for the %s plan.\n\n"+
				"Thank you for supporting DispatchHub.\n", amount, currency, planName),
	}
}
